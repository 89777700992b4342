package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"docrag/internal/config"
)

// rootOptions carries the persistent flags and the resolved configuration
// shared by all subcommands.
type rootOptions struct {
	configPath  string
	dbPath      string
	openAIKey   string
	openAIModel string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docrag",
		Short: "Local retrieval over your text files",
		Long: `docrag splits text files into overlapping character windows, embeds them
and stores them in a single SQLite file. Questions are answered by ranking
every stored chunk by cosine similarity.

Without an OpenAI API key a deterministic local hash embedder is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $DOCRAG_CONFIG or ./docrag.yaml)")
	flags.StringVar(&opts.dbPath, "db", "", "path to the SQLite database (default data/rag.db)")
	flags.StringVar(&opts.openAIKey, "openai-api-key", "", "OpenAI API key; enables the remote embedder")
	flags.StringVar(&opts.openAIModel, "openai-model", "", "OpenAI embedding model (default text-embedding-3-small)")

	cmd.AddCommand(
		newIngestCmd(opts),
		newQueryCmd(opts),
		newStatsCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

// load resolves configuration (flags over environment over file) and
// configures the default logger.
func (o *rootOptions) load(logOut io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.openAIKey != "" {
		cfg.OpenAIAPIKey = o.openAIKey
	}
	if o.openAIModel != "" {
		cfg.OpenAIModel = o.openAIModel
	}
	o.cfg = cfg

	logger := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)
	return nil
}

// newLogger builds a text or JSON slog logger at the given level.
// Unknown levels fall back to info.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
