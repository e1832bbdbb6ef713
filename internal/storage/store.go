package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/skijump/internal/jump"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
	flightFile   = "flight.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Params    jump.Params        `json:"params"`
	Outputs   jump.Outputs       `json:"outputs"`
	Skier     map[string]float64 `json:"skier"`
}

// ProfileRow is one sample of a built surface. Segment names the part of
// the jump it belongs to.
type ProfileRow struct {
	Segment   string
	X, Y      float64
	Slope     float64
	Curvature float64
}

type FlightRow struct {
	T, X, Y, VX, VY float64
}

type Record struct {
	Meta    Metadata
	Profile []ProfileRow
	Flight  []FlightRow
}

type profiled interface {
	X() []float64
	Y() []float64
	Slope() []float64
	Curvature() []float64
}

// RecordOf flattens a design into its archived form.
func RecordOf(name string, d *jump.Design) *Record {
	rec := &Record{
		Meta: Metadata{
			Name:    name,
			Params:  d.Params,
			Outputs: d.Outputs,
		},
	}
	if d.Skier != nil {
		rec.Meta.Skier = d.Skier.GetParams()
	}

	segments := []struct {
		name string
		surf profiled
	}{
		{"approach", d.Approach},
		{"takeoff", d.Takeoff},
		{"landing", d.Landing},
		{"transition", d.Transition},
	}
	for _, seg := range segments {
		x, y := seg.surf.X(), seg.surf.Y()
		slope, curv := seg.surf.Slope(), seg.surf.Curvature()
		for i := range x {
			rec.Profile = append(rec.Profile, ProfileRow{seg.name, x[i], y[i], slope[i], curv[i]})
		}
	}

	fl := d.Flight
	t, x, y, vx, vy := fl.T(), fl.X(), fl.Y(), fl.VX(), fl.VY()
	rec.Flight = make([]FlightRow, len(t))
	for i := range t {
		rec.Flight[i] = FlightRow{t[i], x[i], y[i], vx[i], vy[i]}
	}
	return rec
}

// Save archives a design and returns its id.
func (s *Store) Save(name string, d *jump.Design) (string, error) {
	return s.SaveRecord(RecordOf(name, d))
}

func (s *Store) SaveRecord(rec *Record) (string, error) {
	if rec.Meta.ID == "" {
		rec.Meta.ID = uuid.NewString()
	}
	if rec.Meta.Timestamp.IsZero() {
		rec.Meta.Timestamp = time.Now()
	}
	dir := filepath.Join(s.baseDir, rec.Meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec.Meta); err != nil {
		return "", err
	}

	profile := make([][]string, 0, len(rec.Profile)+1)
	profile = append(profile, []string{"segment", "x", "y", "slope", "curvature"})
	for _, r := range rec.Profile {
		profile = append(profile, []string{r.Segment, ff(r.X), ff(r.Y), ff(r.Slope), ff(r.Curvature)})
	}
	if err := writeCSV(filepath.Join(dir, profileFile), profile); err != nil {
		return "", err
	}

	flight := make([][]string, 0, len(rec.Flight)+1)
	flight = append(flight, []string{"time", "x", "y", "vx", "vy"})
	for _, r := range rec.Flight {
		flight = append(flight, []string{ff(r.T), ff(r.X), ff(r.Y), ff(r.VX), ff(r.VY)})
	}
	if err := writeCSV(filepath.Join(dir, flightFile), flight); err != nil {
		return "", err
	}

	return rec.Meta.ID, nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// List returns archived designs, newest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	designs := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		designs = append(designs, *meta)
	}

	slices.SortFunc(designs, func(a, b Metadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return designs, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadProfile(id string) ([]ProfileRow, error) {
	records, err := readCSV(filepath.Join(s.baseDir, id, profileFile), 5)
	if err != nil {
		return nil, err
	}

	rows := make([]ProfileRow, 0, len(records))
	for i, rec := range records {
		vals, err := parseFloats(rec[1:])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", profileFile, i+2, err)
		}
		rows = append(rows, ProfileRow{rec[0], vals[0], vals[1], vals[2], vals[3]})
	}
	return rows, nil
}

func (s *Store) LoadFlight(id string) ([]FlightRow, error) {
	records, err := readCSV(filepath.Join(s.baseDir, id, flightFile), 5)
	if err != nil {
		return nil, err
	}

	rows := make([]FlightRow, 0, len(records))
	for i, rec := range records {
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", flightFile, i+2, err)
		}
		rows = append(rows, FlightRow{vals[0], vals[1], vals[2], vals[3], vals[4]})
	}
	return rows, nil
}

// readCSV returns the records after the header.
func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// LoadRecord reads a full archived design back.
func (s *Store) LoadRecord(id string) (*Record, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	profile, err := s.LoadProfile(id)
	if err != nil {
		return nil, err
	}
	flight, err := s.LoadFlight(id)
	if err != nil {
		return nil, err
	}
	return &Record{Meta: *meta, Profile: profile, Flight: flight}, nil
}
