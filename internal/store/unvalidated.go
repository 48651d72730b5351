package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/domain"
)

// UnvalidatedStore keeps operations that failed field validation, one JSON file per token family
//
//go:generate mockgen -source=unvalidated.go -destination=../mocks/unvalidated.go -package=mocks -mock_names=UnvalidatedStore=MockUnvalidatedStore
type UnvalidatedStore interface {
	// Put records the raw fields of a candidate under its blockstamp, an existing entry is kept
	Put(slpType domain.SlpType, stamp domain.BlockStamp, fields map[string]any) error
	// List returns the recorded candidates of a family keyed by blockstamp
	List(slpType domain.SlpType) (map[string]map[string]any, error)
}

type fileUnvalidatedStore struct {
	mu   sync.Mutex
	dir  string
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewUnvalidatedStore creates an unvalidated store writing into dir
func NewUnvalidatedStore(dir string, fileSystem adapter.FileSystem, jsonAdapter adapter.JSON) UnvalidatedStore {
	return &fileUnvalidatedStore{dir: dir, fs: fileSystem, json: jsonAdapter}
}

func (s *fileUnvalidatedStore) path(slpType domain.SlpType) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.unvalidated.json", slpType))
}

func (s *fileUnvalidatedStore) load(slpType domain.SlpType) (map[string]map[string]any, error) {
	entries := make(map[string]map[string]any)

	data, err := s.fs.ReadFile(s.path(slpType))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to read unvalidated file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}

	if err := s.json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse unvalidated file: %w", err)
	}

	return entries, nil
}

// Put records the raw fields of a candidate under its blockstamp
func (s *fileUnvalidatedStore) Put(slpType domain.SlpType, stamp domain.BlockStamp, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(slpType)
	if err != nil {
		return err
	}
	if _, ok := entries[stamp.String()]; ok {
		return nil
	}
	entries[stamp.String()] = fields

	data, err := s.json.MarshalIndent(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal unvalidated entries: %w", err)
	}
	if err := s.fs.WriteFile(s.path(slpType), data); err != nil {
		return fmt.Errorf("failed to write unvalidated file: %w", err)
	}

	return nil
}

// List returns the recorded candidates of a family
func (s *fileUnvalidatedStore) List(slpType domain.SlpType) (map[string]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(slpType)
}
