package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Counts map[string]int `json:"counts"`
}

func newDoc() doc { return doc{Counts: map[string]int{}} }

func TestJSONFile_MissingReturnsDefault(t *testing.T) {
	s := NewJSONFile(filepath.Join(t.TempDir(), "none.json"), newDoc, zerolog.Nop())
	got := s.Load()
	require.NotNil(t, got.Counts)
	assert.Empty(t, got.Counts)
}

func TestJSONFile_RoundTripPretty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.json")
	s := NewJSONFile(path, newDoc, zerolog.Nop())

	require.NoError(t, s.Save(doc{Counts: map[string]int{"a": 1}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "\n  \"counts\": {"), "expected two-space indentation, got %s", raw)

	assert.Equal(t, 1, s.Load().Counts["a"])
}

func TestJSONFile_CorruptReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewJSONFile(path, newDoc, zerolog.Nop())
	got := s.Load()
	require.NotNil(t, got.Counts)
	assert.Empty(t, got.Counts)
}

func TestJSONFile_EmptyFileIsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	s := NewJSONFile(path, newDoc, zerolog.Nop())
	assert.NotNil(t, s.Load().Counts)
}

func TestDecode_DefaultNotShared(t *testing.T) {
	a, _ := Decode(nil, newDoc)
	a.Counts["x"] = 1
	b, _ := Decode(nil, newDoc)
	assert.Empty(t, b.Counts)
}
