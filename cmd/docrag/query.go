package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docrag/internal/rag"
)

const separator = "─────────────────────────────────────────────"

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		topK    int
		rawOnly bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Rank stored chunks against a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			question := strings.Join(args, " ")
			resp, err := a.service.Query(cmd.Context(), rag.QueryRequest{Question: question, TopK: topK})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				data, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal response: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case rawOnly:
				printRawHits(out, resp.Hits)
			default:
				printAnswer(out, resp)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of chunks to return (default from config, 6)")
	cmd.Flags().BoolVar(&rawOnly, "raw-only", false, "print ranked chunks without the synthesized answer")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the response as JSON")

	return cmd
}

func printRawHits(w io.Writer, hits []rag.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	fmt.Fprintln(w, separator)
	for _, h := range hits {
		fmt.Fprintf(w, "#%d | score = %.4f\n", h.Rank, h.Score)
		fmt.Fprintf(w, "File : %s\n", h.DocumentPath)
		fmt.Fprintf(w, "Span : %d..%d\n", h.StartChar, h.EndChar)
		fmt.Fprintf(w, "Text :\n%s\n\n", strings.TrimSpace(h.Text))
		fmt.Fprintln(w, separator)
	}
}

func printAnswer(w io.Writer, resp rag.QueryResponse) {
	fmt.Fprintf(w, "Question: %s\n", resp.Question)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, resp.Answer)
	fmt.Fprintln(w, separator)
}
