package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/feral-file/slp-indexer/internal/adapter"
)

// Checkpoint is the sync progress persisted between runs
type Checkpoint struct {
	Peer             string `json:"peer"`
	LastParsedHeight uint64 `json:"lastParsedHeight"`
}

// CheckpointStore defines the interface for storing and retrieving the sync checkpoint
//
//go:generate mockgen -source=checkpoint.go -destination=../mocks/checkpoint.go -package=mocks -mock_names=CheckpointStore=MockCheckpointStore
type CheckpointStore interface {
	// Load returns the saved checkpoint, a zero checkpoint when none exists
	Load() (Checkpoint, error)
	// Save overwrites the checkpoint
	Save(checkpoint Checkpoint) error
}

type fileCheckpointStore struct {
	path string
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewCheckpointStore creates a checkpoint store backed by a JSON file
func NewCheckpointStore(path string, fileSystem adapter.FileSystem, jsonAdapter adapter.JSON) CheckpointStore {
	return &fileCheckpointStore{path: path, fs: fileSystem, json: jsonAdapter}
}

// Load returns the saved checkpoint
func (s *fileCheckpointStore) Load() (Checkpoint, error) {
	var checkpoint Checkpoint

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return checkpoint, nil
		}
		return checkpoint, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if len(data) == 0 {
		return checkpoint, nil
	}

	if err := s.json.Unmarshal(data, &checkpoint); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to parse checkpoint: %w", err)
	}

	return checkpoint, nil
}

// Save overwrites the checkpoint
func (s *fileCheckpointStore) Save(checkpoint Checkpoint) error {
	data, err := s.json.MarshalIndent(checkpoint)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	return nil
}
