package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"docrag/internal/indexer"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			stats, err := a.service.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal stats: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			printStats(out, stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output statistics as JSON")

	return cmd
}

func printStats(w io.Writer, s *indexer.CoverageStats) {
	const rule = "────────────────────────────"
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Corpus Stats")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Documents   : %d\n", s.Documents)
	fmt.Fprintf(w, "Chunks      : %d\n", s.Chunks)
	if s.LastIngest != nil {
		fmt.Fprintf(w, "Last Ingest : %s\n", s.LastIngest.Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "Last Ingest : (none)")
	}
	if s.Chunks > 0 {
		fmt.Fprintf(w, "Chunk chars : min %d, max %d, mean %.2f, p95 %d\n",
			s.ChunkLengths.Min, s.ChunkLengths.Max, s.ChunkLengths.Mean, s.ChunkLengths.P95)
	}
	if s.DocumentsWithoutChunks > 0 {
		fmt.Fprintf(w, "Empty docs  : %d\n", s.DocumentsWithoutChunks)
	}
	fmt.Fprintf(w, "Embedder    : %s\n", s.Embedder)
	fmt.Fprintf(w, "Chunker     : %s\n", s.ChunkerVersion)
}
