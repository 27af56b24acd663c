// Package artifact persists and reads a document's derived artifacts: the
// index JSON, per-item section files, and the full reconstructed text. Every
// write is atomic, so a published artifact is always complete.
package artifact

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dvigh8/10k-parser/internal/index"
)

const (
	infoFile     = "pdf_info.json"
	fullTextFile = "10k_full_text.txt"
)

//go:embed schema.json
var infoSchemaJSON string

var infoSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", strings.NewReader(infoSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile("schema.json")
}

// Store is the artifact directory for one document. The directory is
// write-once from the core's point of view; concurrent re-processing of the
// same document must be serialized by the caller.
type Store struct {
	dir string
}

// New returns the store for a document inside dataDir, keyed by the
// document's file name without extension.
func New(dataDir, fileName string) *Store {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	return &Store{dir: filepath.Join(dataDir, stem)}
}

// Open returns a store over an existing artifact directory.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// EnsureDir creates the artifact directory.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	return nil
}

// WriteInfo persists the index artifact.
func (s *Store) WriteInfo(info *index.Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return s.writeAtomic(infoFile, data)
}

// HasInfo reports whether the index artifact has been published.
func (s *Store) HasInfo() bool {
	_, err := os.Stat(filepath.Join(s.dir, infoFile))
	return err == nil
}

// ReadInfo loads and validates the index artifact.
func (s *Store) ReadInfo() (*index.Info, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, infoFile))
	if err != nil {
		return nil, fmt.Errorf("read index artifact: %w", err)
	}

	var doc any
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode index artifact: %w", err)
	}
	if err := infoSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("index artifact failed schema validation: %w", err)
	}

	var info index.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unmarshal index artifact: %w", err)
	}
	return &info, nil
}

// WriteSection persists one item's extracted text.
func (s *Store) WriteSection(itemKey, text string) error {
	return s.writeAtomic(itemKey+".txt", []byte(text))
}

// ReadSection reads one item's extracted text.
func (s *Store) ReadSection(itemKey string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, itemKey+".txt"))
	if err != nil {
		return "", fmt.Errorf("read section %s: %w", itemKey, err)
	}
	return string(data), nil
}

// WriteFullText persists the whole reconstructed document.
func (s *Store) WriteFullText(text string) error {
	return s.writeAtomic(fullTextFile, []byte(text))
}

// ReadFullText reads the whole reconstructed document.
func (s *Store) ReadFullText() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, fullTextFile))
	if err != nil {
		return "", fmt.Errorf("read full text: %w", err)
	}
	return string(data), nil
}

// writeAtomic writes to a temp file in the artifact dir and renames it into
// place, so readers never observe a partially written artifact.
func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close artifact %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish artifact %s: %w", name, err)
	}
	return nil
}
