package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/ingredient"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w", "folders.db")
	p, err := NewSQLiteFile(path)
	require.NoError(t, err)

	s, err := OpenFolderStore(p)
	require.NoError(t, err)

	a, err := s.Create("A")
	require.NoError(t, err)
	b, err := s.Create("B")
	require.NoError(t, err)
	for _, id := range []string{"stone", "dirt", "coal"} {
		_, err := s.AddIngredient(b.ID, ingredient.MustItem(id))
		require.NoError(t, err)
	}
	require.NoError(t, s.SetActive(b.ID))
	require.NoError(t, s.Move(b.ID, -1))
	require.NoError(t, s.Close())

	p2, err := NewSQLiteFile(path)
	require.NoError(t, err)
	defer p2.Close()

	reopened, err := OpenFolderStore(p2)
	require.NoError(t, err)
	folders := reopened.Folders()
	require.Len(t, folders, 2)
	assert.Equal(t, b.ID, folders[0].ID)
	assert.Equal(t, a.ID, folders[1].ID)
	assert.True(t, folders[0].Active)
	assert.Equal(t, []ingredient.Ref{
		ingredient.MustItem("stone"), ingredient.MustItem("dirt"), ingredient.MustItem("coal"),
	}, folders[0].Ingredients)
}

func TestSQLiteEmptyDatabase(t *testing.T) {
	p, err := NewSQLiteFile(filepath.Join(t.TempDir(), "folders.db"))
	require.NoError(t, err)
	defer p.Close()

	folders, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, folders)
}
