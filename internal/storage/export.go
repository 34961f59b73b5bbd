package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Times   []Float     `json:"times"`
	Samples []Float     `json:"samples"`
	Outputs []Float     `json:"outputs"`
}

func ExportJSON(w io.Writer, meta RunMetadata, series Series) error {
	data := ExportData{
		Run:     meta,
		Times:   toFloats(series.Times),
		Samples: toFloats(series.Samples),
		Outputs: toFloats(series.Outputs),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(data), "export json")
}

// WriteCSV writes one row per tick. Values use the shortest exact decimal
// form so a reload reproduces the run bit for bit.
func WriteCSV(w io.Writer, series Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"tick", "time", "sample", "output"}); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for i := range series.Outputs {
		row := []string{
			strconv.Itoa(i),
			formatFloat(at(series.Times, i)),
			formatFloat(at(series.Samples, i)),
			formatFloat(series.Outputs[i]),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}
