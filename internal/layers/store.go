package layers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/logging"
)

// Layer is one stage of the medallion layout
type Layer string

const (
	Bronze Layer = "bronze"
	Silver Layer = "silver"
	Gold   Layer = "gold"
)

// All lists the layers in pipeline order
var All = []Layer{Bronze, Silver, Gold}

// legacyMetadataKey marks sentinel rows that older writers appended to arrays
const legacyMetadataKey = "_metadata"

// Metadata describes how and when a dataset was produced
type Metadata struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Layer       Layer     `json:"layer"`
	Dataset     string    `json:"dataset"`
	RecordCount int       `json:"record_count"`
	Sources     []string  `json:"sources,omitempty"`
}

// Envelope is the on-disk shape of every dataset
type Envelope struct {
	Metadata Metadata        `json:"metadata"`
	Data     json.RawMessage `json:"data"`
}

// ReadReport tallies what a reader skipped
type ReadReport struct {
	Format           string // envelope, array or legacy
	SentinelsDropped int
}

// Store reads and writes datasets under a data directory
type Store struct {
	root   string
	runID  string
	now    func() time.Time
	logger *slog.Logger
}

// NewStore returns a store rooted at dir. Every dataset written through it
// shares one run id.
func NewStore(dir string) *Store {
	return &Store{
		root:   dir,
		runID:  uuid.NewString(),
		now:    time.Now,
		logger: logging.Component("layers"),
	}
}

// RunID identifies the run that writes through this store
func (s *Store) RunID() string { return s.runID }

// Root returns the data directory
func (s *Store) Root() string { return s.root }

// Dir returns the directory of a layer
func (s *Store) Dir(layer Layer) string {
	return filepath.Join(s.root, string(layer))
}

// Path returns the file path of a dataset
func (s *Store) Path(layer Layer, name string) string {
	return filepath.Join(s.Dir(layer), name+".json")
}

// Exists reports whether a dataset file is present
func (s *Store) Exists(layer Layer, name string) bool {
	_, err := os.Stat(s.Path(layer, name))
	return err == nil
}

// Write stores data as an envelope. Slices record their length, anything
// else counts as one record.
func (s *Store) Write(layer Layer, name string, data interface{}, sources ...string) error {
	body, err := json.Marshal(data)
	if err != nil {
		return errors.InternalErrorf("failed to marshal %s/%s: %v", layer, name, err)
	}

	srcs := append([]string(nil), sources...)
	sort.Strings(srcs)
	env := Envelope{
		Metadata: Metadata{
			RunID:       s.runID,
			GeneratedAt: s.now().UTC(),
			Layer:       layer,
			Dataset:     name,
			RecordCount: recordCount(data),
			Sources:     srcs,
		},
		Data: body,
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.InternalErrorf("failed to marshal %s/%s: %v", layer, name, err)
	}

	path := s.Path(layer, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.FileSystemErrorf(err, "failed to create %s", filepath.Dir(path))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return errors.FileSystemErrorf(err, "failed to write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.FileSystemErrorf(err, "failed to write %s", path)
	}

	s.logger.Debug("dataset written", "layer", layer, "dataset", name, "records", env.Metadata.RecordCount)
	return nil
}

// ReadMetadata returns the envelope metadata of a dataset, or nil for files
// written without one.
func (s *Store) ReadMetadata(layer Layer, name string) (*Metadata, error) {
	raw, err := s.readFile(layer, name)
	if err != nil {
		return nil, err
	}
	env, ok := asEnvelope(raw)
	if !ok {
		return nil, nil
	}
	return &env.Metadata, nil
}

// ReadObject decodes a non-array dataset into v
func (s *Store) ReadObject(layer Layer, name string, v interface{}) error {
	raw, err := s.readFile(layer, name)
	if err != nil {
		return err
	}
	if env, ok := asEnvelope(raw); ok {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.DatasetErrorf(err, "failed to decode %s/%s", layer, name)
	}
	return nil
}

// ReadRecords decodes an array dataset into T. It accepts an envelope, a
// plain array, or a legacy array with sentinel metadata rows, which are
// dropped wherever they appear.
func ReadRecords[T any](s *Store, layer Layer, name string) ([]T, ReadReport, error) {
	var report ReadReport

	raw, err := s.readFile(layer, name)
	if err != nil {
		return nil, report, err
	}

	report.Format = "array"
	if env, ok := asEnvelope(raw); ok {
		raw = env.Data
		report.Format = "envelope"
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, report, errors.DatasetErrorf(err, "failed to decode %s/%s", layer, name)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if isSentinel(row) {
			report.SentinelsDropped++
			continue
		}
		var rec T
		if err := json.Unmarshal(row, &rec); err != nil {
			return nil, report, errors.DatasetErrorf(err, "failed to decode record in %s/%s", layer, name)
		}
		out = append(out, rec)
	}
	if report.SentinelsDropped > 0 && report.Format == "array" {
		report.Format = "legacy"
	}
	return out, report, nil
}

func (s *Store) readFile(layer Layer, name string) ([]byte, error) {
	path := s.Path(layer, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrorTypeDataset, errors.SeverityHigh,
				fmt.Sprintf("dataset %s/%s not found", layer, name)).WithContext("path", path)
		}
		return nil, errors.FileSystemErrorf(err, "failed to read %s", path)
	}
	return raw, nil
}

func asEnvelope(raw []byte) (Envelope, bool) {
	var env Envelope
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return env, false
	}
	if _, ok := probe["data"]; !ok {
		return env, false
	}
	if _, ok := probe["metadata"]; !ok {
		return env, false
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return env, false
	}
	return env, true
}

func isSentinel(row json.RawMessage) bool {
	trimmed := bytes.TrimSpace(row)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return false
	}
	_, ok := probe[legacyMetadataKey]
	return ok
}

func recordCount(data interface{}) int {
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len()
	case reflect.Invalid:
		return 0
	}
	return 1
}
