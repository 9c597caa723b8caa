package synth

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// WriteCSV writes a header row followed by one record per row. Floats use the
// shortest representation that round-trips, so equal datasets produce equal bytes.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Names()); err != nil {
		return errors.Wrap(err, "synth: write csv header")
	}

	n := d.params.NFeatures
	record := make([]string, len(d.schema))
	for i := 0; i < d.params.NObs; i++ {
		for j := range record {
			switch {
			case j < n:
				record[j] = strconv.FormatFloat(d.continuous.At(i, j), 'g', -1, 64)
			case j < n+NumCategorical:
				record[j] = strconv.Itoa(int(d.categorical[j-n][i]))
			default:
				record[j] = strconv.FormatFloat(d.y[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "synth: write csv row %d", i)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "synth: flush csv")
	}
	return nil
}
