package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/interactlab/importance"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// WriteTable writes one aligned row per score in the given order:
//
//	RANK  FEATURE  MEAN      STD
//	1     V1       0.951234  0.012000
func WriteTable(w io.Writer, scores []importance.Score) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "RANK\tFEATURE\tMEAN\tSTD")
	for i, s := range scores {
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%.6f\n", i+1, s.Name, s.Mean, s.Std)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write importance table")
	}
	return nil
}
