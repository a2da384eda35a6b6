package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"stash/errors"
	"stash/ingredient"
	"stash/model"
)

// SQLiteFile stores folders in a small SQLite database, for players with very
// large folder sets. It is selected with storage.driver = "sqlite".
type SQLiteFile struct {
	path string
	db   *sql.DB
}

// NewSQLiteFile opens (creating if needed) the database at path.
func NewSQLiteFile(path string) (*SQLiteFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Persistence(path, fmt.Errorf("failed to create directory: %w", err))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Persistence(path, fmt.Errorf("failed to open database: %w", err))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Persistence(path, fmt.Errorf("failed to ping database: %w", err))
	}

	s := &SQLiteFile{path: path, db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, errors.Persistence(path, fmt.Errorf("failed to initialize database: %w", err))
	}
	return s, nil
}

func (s *SQLiteFile) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS folders (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS folder_ingredients (
		folder_id TEXT NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		PRIMARY KEY (folder_id, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteFile) Location() string { return s.path }

func (s *SQLiteFile) Close() error { return s.db.Close() }

func (s *SQLiteFile) Load() ([]model.Folder, error) {
	rows, err := s.db.Query(`SELECT id, name, active FROM folders ORDER BY position`)
	if err != nil {
		return nil, errors.Persistence(s.path, err)
	}
	defer rows.Close()

	var folders []model.Folder
	index := make(map[string]int)
	for rows.Next() {
		var id, name string
		var active int
		if err := rows.Scan(&id, &name, &active); err != nil {
			return nil, errors.Persistence(s.path, err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue // Skip corrupted rows
		}
		index[id] = len(folders)
		folders = append(folders, model.Folder{
			ID:          parsed,
			Name:        name,
			Active:      active != 0,
			Ingredients: []ingredient.Ref{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Persistence(s.path, err)
	}

	refs, err := s.db.Query(`SELECT folder_id, kind, key FROM folder_ingredients ORDER BY folder_id, position`)
	if err != nil {
		return nil, errors.Persistence(s.path, err)
	}
	defer refs.Close()

	for refs.Next() {
		var folderID, kind, key string
		if err := refs.Scan(&folderID, &kind, &key); err != nil {
			return nil, errors.Persistence(s.path, err)
		}
		if i, ok := index[folderID]; ok {
			folders[i].Ingredients = append(folders[i].Ingredients, ingredient.New(kind, key))
		}
	}
	if err := refs.Err(); err != nil {
		return nil, errors.Persistence(s.path, err)
	}
	return folders, nil
}

// Save replaces the stored folder list in one transaction.
func (s *SQLiteFile) Save(folders []model.Folder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Persistence(s.path, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM folder_ingredients`); err != nil {
		return errors.Persistence(s.path, err)
	}
	if _, err := tx.Exec(`DELETE FROM folders`); err != nil {
		return errors.Persistence(s.path, err)
	}

	for pos, f := range folders {
		active := 0
		if f.Active {
			active = 1
		}
		if _, err := tx.Exec(`INSERT INTO folders (id, position, name, active) VALUES (?, ?, ?, ?)`,
			f.ID.String(), pos, f.Name, active); err != nil {
			return errors.Persistence(s.path, err)
		}
		for i, ref := range f.Ingredients {
			if _, err := tx.Exec(`INSERT INTO folder_ingredients (folder_id, position, kind, key) VALUES (?, ?, ?, ?)`,
				f.ID.String(), i, ref.Kind, ref.Key); err != nil {
				return errors.Persistence(s.path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Persistence(s.path, err)
	}
	return nil
}
