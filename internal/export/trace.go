package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/softbody/internal/sim"
)

// TraceHeader is the first row of a CSV trace.
var TraceHeader = []string{"time", "cx", "cy", "cz", "min_height", "kinetic", "max_speed"}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

// WriteTrace writes one CSV row per sample.
func WriteTrace(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TraceHeader); err != nil {
		return err
	}

	row := make([]string, len(TraceHeader))
	for _, s := range samples {
		row[0] = formatFloat(s.Time)
		row[1] = formatFloat(s.Centroid.X())
		row[2] = formatFloat(s.Centroid.Y())
		row[3] = formatFloat(s.Centroid.Z())
		row[4] = formatFloat(s.MinHeight)
		row[5] = formatFloat(s.KineticEnergy)
		row[6] = formatFloat(s.MaxSpeed)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTrace parses a trace written by WriteTrace.
func ReadTrace(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(TraceHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty trace")
	}
	if records[0][0] != TraceHeader[0] {
		return nil, fmt.Errorf("trace header: unexpected column %q", records[0][0])
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [7]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("trace row %d, column %s: %w", i+1, TraceHeader[j], err)
			}
			vals[j] = v
		}
		s := sim.Sample{
			Time:          vals[0],
			MinHeight:     vals[4],
			KineticEnergy: vals[5],
			MaxSpeed:      vals[6],
		}
		s.Centroid[0], s.Centroid[1], s.Centroid[2] = vals[1], vals[2], vals[3]
		samples = append(samples, s)
	}
	return samples, nil
}
