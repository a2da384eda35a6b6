package storage

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stash/errors"
	"stash/model"
)

// Persister moves a folder list to and from durable storage. Save is always a
// full overwrite.
type Persister interface {
	// Load returns the stored folders. A missing store yields (nil, nil).
	Load() ([]model.Folder, error)
	Save(folders []model.Folder) error
	Location() string
	Close() error
}

// changeDetector is implemented by persisters that can tell whether the
// backing file was modified by someone else since the last Load or Save.
type changeDetector interface {
	ChangedExternally() (bool, error)
}

// JSONFile stores the folder list as a single JSON array.
type JSONFile struct {
	path string

	mu     sync.Mutex
	digest [sha256.Size]byte
}

// NewJSONFile returns a persister for path. The file is not touched until Load or Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Location() string { return j.path }

func (j *JSONFile) Close() error { return nil }

// Load reads the folder file. A file that fails to parse is moved aside to
// <name>.corrupt-<timestamp> so the next Save cannot clobber it.
func (j *JSONFile) Load() ([]model.Folder, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Persistence(j.path, err)
	}

	j.mu.Lock()
	j.digest = sha256.Sum256(data)
	j.mu.Unlock()

	if len(data) == 0 {
		return nil, nil
	}

	var folders []model.Folder
	if err := json.Unmarshal(data, &folders); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%s", j.path, time.Now().Format("20060102-150405"))
		if renameErr := os.Rename(j.path, backup); renameErr == nil {
			return nil, errors.Wrap(err, errors.CodePersistence, "folder file is corrupt").
				WithDetail("path", j.path).
				WithDetail("backup", backup)
		}
		return nil, errors.Wrap(err, errors.CodePersistence, "folder file is corrupt").
			WithDetail("path", j.path)
	}
	return folders, nil
}

// Save writes the folder list through a temp file and a rename.
func (j *JSONFile) Save(folders []model.Folder) error {
	if folders == nil {
		folders = []model.Folder{}
	}
	data, err := json.MarshalIndent(folders, "", "  ")
	if err != nil {
		return errors.Persistence(j.path, fmt.Errorf("failed to marshal folders: %w", err))
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Persistence(j.path, fmt.Errorf("failed to create directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, ".folders-*.json")
	if err != nil {
		return errors.Persistence(j.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Persistence(j.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Persistence(j.path, err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return errors.Persistence(j.path, err)
	}

	j.mu.Lock()
	j.digest = sha256.Sum256(data)
	j.mu.Unlock()
	return nil
}

// ChangedExternally compares the file on disk with what this persister last
// read or wrote.
func (j *JSONFile) ChangedExternally() (bool, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return sha256.Sum256(data) != j.digest, nil
}
