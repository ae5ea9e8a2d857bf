package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/EpicMandM/esxi-inventory/internal/models"
)

const fileTimeLayout = "20060102_150405"

// EncodingError reports a record the JSON encoder refused.
type EncodingError struct {
	VM  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode record for vm %q: %v", e.VM, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Encode renders one record as a single JSON object followed by a newline.
// Timestamps come out as RFC 3339 with nanoseconds.
func Encode(rec *models.VMRecord) ([]byte, error) {
	if rec == nil {
		return nil, &EncodingError{Err: errors.New("nil record")}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, &EncodingError{VM: rec.Name, Err: err}
	}
	return append(data, '\n'), nil
}

// OutputFileName builds vms_detail_<endpoint>_<YYYYmmdd_HHMMSS>.json.
func OutputFileName(endpoint string, scanTime time.Time) string {
	return fmt.Sprintf("vms_detail_%s_%s.json", sanitize(endpoint), scanTime.Format(fileTimeLayout))
}

func sanitize(endpoint string) string {
	return strings.NewReplacer("/", "_", ":", "_", string(filepath.Separator), "_").Replace(endpoint)
}

// JSONLStore appends records to one file held open for the whole scan.
type JSONLStore struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// NewJSONLStore opens (or creates) path for appending. A directory path gets
// the default output file name for endpoint and scanTime.
func NewJSONLStore(dir, endpoint string, scanTime time.Time) (*JSONLStore, error) {
	path, err := resolveOutputPath(dir, OutputFileName(endpoint, scanTime))
	if err != nil {
		return nil, err
	}
	return OpenJSONLStore(path)
}

// OpenJSONLStore opens an explicit file path. Existing content is kept.
func OpenJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return &JSONLStore{path: path, f: f}, nil
}

func resolveOutputPath(dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs := filepath.Clean(dir)
	if strings.HasSuffix(abs, ".json") {
		if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
			return "", err
		}
		return abs, nil
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", err
	}
	return filepath.Join(abs, name), nil
}

// Append encodes rec and writes it with a single Write call.
func (s *JSONLStore) Append(rec *models.VMRecord) error {
	line, err := Encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return fmt.Errorf("append to %s: %w", s.path, os.ErrClosed)
	}
	if _, err := s.f.Write(line); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONLStore) Path() string {
	return s.path
}

func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
