package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Metadata
	Profile []ProfileRow `json:"profile"`
	Flight  []FlightRow  `json:"flight"`
}

func (r ProfileRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Segment, r.X, r.Y, r.Slope, r.Curvature})
}

func (r FlightRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]float64{r.T, r.X, r.Y, r.VX, r.VY})
}

// ExportJSON writes the record as one JSON document. Profile and flight
// rows are encoded as arrays in CSV column order.
func ExportJSON(w io.Writer, rec *Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Metadata: rec.Meta,
		Profile:  rec.Profile,
		Flight:   rec.Flight,
	})
}

func ExportFile(path string, rec *Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ExportJSON(f, rec); err != nil {
		return err
	}
	return f.Close()
}
