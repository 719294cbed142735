// Package store persists a single JSON-shaped value with a
// default-on-missing policy.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// RecordStore loads and saves one value of type T. Load never fails on a
// missing or unreadable record: it returns the store's default instead.
type RecordStore[T any] interface {
	Load() T
	Save(v T) error
}

// JSONFile keeps a value as a pretty-printed JSON document on disk.
type JSONFile[T any] struct {
	path   string
	def    func() T
	logger zerolog.Logger
}

// NewJSONFile returns a store at path. def builds the value returned when the
// file is missing or corrupt; it is called fresh each time so callers can
// mutate the result.
func NewJSONFile[T any](path string, def func() T, logger zerolog.Logger) *JSONFile[T] {
	return &JSONFile[T]{
		path:   path,
		def:    def,
		logger: logger.With().Str("component", "json_store").Str("path", path).Logger(),
	}
}

// Load reads the document, falling back to the default on any error.
func (s *JSONFile[T]) Load() T {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.def()
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("read failed, using default")
		return s.def()
	}
	v, err := Decode(b, s.def)
	if err != nil {
		s.logger.Warn().Err(err).Msg("corrupt record, using default")
	}
	return v
}

// Save writes v with two-space indentation, creating parent directories.
func (s *JSONFile[T]) Save(v T) error {
	body, err := Encode(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path)
}

// Encode renders v as indented JSON with a trailing newline.
func Encode[T any](v T) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses b into a fresh default value. Empty input is the default.
// On a parse error the default is returned alongside the error.
func Decode[T any](b []byte, def func() T) (T, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return def(), nil
	}
	v := def()
	if err := json.Unmarshal(b, &v); err != nil {
		return def(), fmt.Errorf("decode record: %w", err)
	}
	return v, nil
}
