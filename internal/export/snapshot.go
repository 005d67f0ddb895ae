package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/render"
)

// Snapshot is the JSON form of one frame: the segments a renderer would
// draw, keyed by spring index.
type Snapshot struct {
	Topology string           `json:"topology"`
	Time     float64          `json:"time"`
	Points   int              `json:"points"`
	Springs  int              `json:"springs"`
	Segments []render.Segment `json:"segments"`
}

func NewSnapshot(topology string, t float64, v dynamo.View) *Snapshot {
	return &Snapshot{
		Topology: topology,
		Time:     t,
		Points:   v.NumPoints(),
		Springs:  v.NumSprings(),
		Segments: render.Segments(v, nil),
	}
}

func WriteSnapshot(w io.Writer, s *Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

func SaveSnapshot(path string, s *Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteSnapshot(file, s)
}

func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
