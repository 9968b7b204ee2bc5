package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Text writes the tables for a terminal, one aligned block per table
func Text(w io.Writer, tables []Table) error {
	tw := tabwriter.NewWriter(w, 5, 3, 3, ' ', 0)

	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, t.Title)
		fmt.Fprintln(tw, strings.Join(t.Headers[:], "\t"))

		if len(t.Rows) == 0 {
			fmt.Fprintln(tw, t.Empty)
			continue
		}
		for _, r := range t.Rows {
			train := r.Train
			if r.Cancelled {
				train += " (x)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", train, r.Counterpart, r.Scheduled, r.Actual, r.Diff)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write tables: %w", err)
	}
	return nil
}
