package chunker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ytdub/pkg/file"
)

// Store is a directory-backed blob store keyed by chunk index. One artifact
// per index; existence of the artifact is proof the chunk was translated.
// Writes are atomic (temp file + rename) so a resume probe only ever sees a
// complete artifact or none at all.
type Store struct {
	dir string
}

// Meta records the chunking parameters a store was built with, for
// diagnostics and resume-compatibility checks.
type Meta struct {
	Total         int     `json:"total"`
	ChunkDuration float64 `json:"chunk_duration"`
	SoftCharLimit int     `json:"soft_char_limit"`
	HardCharLimit int     `json:"hard_char_limit"`
	Model         string  `json:"model"`
}

const metaFileName = "_meta.json"

// NewStore opens (and creates if needed) the chunk store at dir.
func NewStore(dir string) (*Store, error) {
	if err := file.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create chunk store: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("chunk_%03d.txt", index))
}

// Exists reports whether a completed artifact is present for index.
func (s *Store) Exists(index int) bool {
	return file.Exists(s.path(index))
}

// Read loads the translated text persisted for index.
func (s *Store) Read(index int) (string, error) {
	data, err := os.ReadFile(s.path(index))
	if err != nil {
		return "", fmt.Errorf("read chunk %d: %w", index, err)
	}
	return string(data), nil
}

// Write atomically persists the translated text for index.
func (s *Store) Write(index int, text string) error {
	if err := file.WriteAtomic(s.path(index), []byte(text)); err != nil {
		return fmt.Errorf("write chunk %d: %w", index, err)
	}
	return nil
}

// WriteMeta records the store's chunking parameters once up front.
func (s *Store) WriteMeta(meta Meta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return file.WriteAtomic(filepath.Join(s.dir, metaFileName), data)
}

// ReadMeta loads the recorded chunking parameters, if any.
func (s *Store) ReadMeta() (*Meta, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metaFileName))
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse chunk store meta: %w", err)
	}
	return &meta, nil
}

// Remove deletes the whole store. The store is a cache, not final output;
// the caller removes it once the assembled translation is persisted one
// level up.
func (s *Store) Remove() error {
	return os.RemoveAll(s.dir)
}
