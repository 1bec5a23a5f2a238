package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/pagekeep/tests/testutil"
)

// TestSearchWorkflow covers name search across pages.
func TestSearchWorkflow(t *testing.T) {
	t.Run("search spans every page", func(t *testing.T) {
		_, store, pages := testutil.SetupStore(t)

		require.NoError(t, pages.Add("work"))
		require.NoError(t, pages.Add("archive"))

		testutil.SeedFile(t, store, "main", "invoice-jan.pdf", "%PDF")
		testutil.SeedFile(t, store, "work", "invoice-feb.pdf", "%PDF")
		testutil.SeedFile(t, store, "archive", "Invoice-mar.pdf", "%PDF")
		testutil.SeedFile(t, store, "work", "photo.png", "img")

		results, err := store.SearchFiles("invoice", 50)
		require.NoError(t, err)
		require.Len(t, results, 3)

		seenPages := map[string]bool{}
		for _, f := range results {
			seenPages[f.Page] = true
			assert.Contains(t, []string{"invoice-jan.pdf", "invoice-feb.pdf", "Invoice-mar.pdf"}, f.Name)
		}
		assert.Len(t, seenPages, 3)
	})

	t.Run("results come newest first", func(t *testing.T) {
		_, store, _ := testutil.SetupStore(t)

		a := testutil.SeedFile(t, store, "main", "report-a.txt", "1")
		b := testutil.SeedFile(t, store, "main", "report-b.txt", "2")

		results, err := store.SearchFiles("report", 50)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, b.ID, results[0].ID)
		assert.Equal(t, a.ID, results[1].ID)
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		_, store, _ := testutil.SetupStore(t)
		testutil.SeedFile(t, store, "main", "a.txt", "x")

		results, err := store.SearchFiles("", 50)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("deleted files drop out of results", func(t *testing.T) {
		_, store, _ := testutil.SetupStore(t)

		f := testutil.SeedFile(t, store, "main", "fleeting.txt", "x")
		require.NoError(t, store.DeleteFile(f.ID))

		results, err := store.SearchFiles("fleeting", 50)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
