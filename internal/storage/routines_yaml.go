package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"visionary/internal/core/model"
)

const routinesFileName = "routines.yaml"

// ErrRoutineNotFound indicates a custom routine id that is not stored.
var ErrRoutineNotFound = errors.New("custom routine not found")

type yamlRoutines struct {
	Routines []model.Routine `yaml:"routines"`
}

// RoutineStore persists user-authored routines as YAML.
type RoutineStore struct {
	mu   sync.Mutex
	path string
	dir  string
}

// NewRoutineStore creates a store for routines.yaml in configDir.
func NewRoutineStore(configDir string) *RoutineStore {
	return &RoutineStore{
		path: filepath.Join(configDir, routinesFileName),
		dir:  configDir,
	}
}

// List returns the stored routines. Invalid entries are skipped.
func (store *RoutineStore) List() ([]model.Routine, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.readLocked()
}

// Add appends routine after validating it.
func (store *RoutineStore) Add(routine model.Routine) error {
	if err := routine.Validate(); err != nil {
		return fmt.Errorf("add routine %q: %w", routine.Name, err)
	}
	routine.Custom = true

	store.mu.Lock()
	defer store.mu.Unlock()
	routines, err := store.readLocked()
	if err != nil {
		return err
	}
	return store.writeLocked(append(routines, routine))
}

// Remove deletes the routine with id.
func (store *RoutineStore) Remove(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	routines, err := store.readLocked()
	if err != nil {
		return err
	}

	kept := routines[:0]
	for _, routine := range routines {
		if routine.ID != id {
			kept = append(kept, routine)
		}
	}
	if len(kept) == len(routines) {
		return fmt.Errorf("remove routine %s: %w", id, ErrRoutineNotFound)
	}
	return store.writeLocked(kept)
}

func (store *RoutineStore) readLocked() ([]model.Routine, error) {
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read routines file: %w", err)
	}

	var fileData yamlRoutines
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse routines yaml: %w", err)
	}

	routines := make([]model.Routine, 0, len(fileData.Routines))
	for _, routine := range fileData.Routines {
		if routine.ID == "" || routine.Validate() != nil {
			continue
		}
		routine.Custom = true
		routines = append(routines, routine)
	}
	return routines, nil
}

func (store *RoutineStore) writeLocked(routines []model.Routine) error {
	serialized, err := yaml.Marshal(yamlRoutines{Routines: routines})
	if err != nil {
		return fmt.Errorf("marshal routines yaml: %w", err)
	}
	return writeFile(store.dir, routinesFileName, serialized)
}
