package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/pagekeep/internal/model"
)

func TestSetupStore(t *testing.T) {
	t.Run("creates a working store and registry", func(t *testing.T) {
		dir, store, pages := SetupStore(t)
		assert.NotEmpty(t, dir)

		names, err := pages.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, names)

		f := SeedFile(t, store, "main", "a.txt", "hello")
		data, err := store.GetBlob(f.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))

		id := SeedNote(t, store, "main", "Note", model.KindNotes, "body")
		n, err := store.GetNote(id)
		require.NoError(t, err)
		assert.Equal(t, "Note", n.Title)
	})
}
