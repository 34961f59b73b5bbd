package signals

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/gyroint/internal/dynamo"
)

// ReadCSV loads a recorded sample column. The column is chosen by header
// name; a file whose first row is numeric is read from column zero.
func ReadCSV(r io.Reader, column string) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read sample csv")
	}
	if len(records) == 0 {
		return nil, dynamo.ErrEmptySeries
	}

	idx := 0
	start := 0
	if _, err := strconv.ParseFloat(firstField(records[0]), 64); err != nil {
		start = 1
		idx = -1
		for i, h := range records[0] {
			if strings.EqualFold(strings.TrimSpace(h), column) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.Wrapf(dynamo.ErrNotFound, "column %q", column)
		}
	}

	values := make([]float64, 0, len(records)-start)
	for row := start; row < len(records); row++ {
		rec := records[row]
		if idx >= len(rec) {
			return nil, errors.Errorf("row %d: %d fields, no column %d", row+1, len(rec), idx+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row+1)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, dynamo.ErrEmptySeries
	}
	return values, nil
}

func firstField(rec []string) string {
	if len(rec) == 0 {
		return ""
	}
	return strings.TrimSpace(rec[0])
}
