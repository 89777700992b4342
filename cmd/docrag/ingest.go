package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docrag/internal/service"
)

func newIngestCmd(opts *rootOptions) *cobra.Command {
	var (
		chunkSize int
		overlap   int
		batchMode string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Chunk, embed and store files",
		Long: `Reads every regular file under the given paths, splits it into
overlapping character windows, embeds the windows and stores them.
Ingesting the same file twice stores it twice.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchMode != "" {
				opts.cfg.IngestBatchMode = batchMode
			}

			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			req := service.IngestRequest{Paths: args, ChunkSize: chunkSize}
			if cmd.Flags().Changed("overlap") {
				req.Overlap = &overlap
			}

			report, err := a.service.Ingest(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal report: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			if report.Chunks == 0 {
				fmt.Fprintf(out, "No chunks to embed; %d files found, %d skipped.\n", report.FilesFound, report.FilesSkipped)
				return nil
			}
			fmt.Fprintf(out, "Ingested %d documents (%d chunks) from %d files, %d skipped.\n",
				report.Documents, report.Chunks, report.FilesFound, report.FilesSkipped)
			fmt.Fprintf(out, "Embedder      : %s (%d calls)\n", report.Embedder, report.EmbedCalls)
			fmt.Fprintf(out, "Index version : %s\n", report.IndexVersion)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in characters (default from config, 512)")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "overlap between chunks in characters (default from config, 64)")
	cmd.Flags().StringVar(&batchMode, "batch-mode", "", "embedding batch granularity: run or file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the report as JSON")

	return cmd
}
