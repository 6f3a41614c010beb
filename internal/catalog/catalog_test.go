package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := NewDefaultCatalog()
	require.NotEmpty(t, c.Menus)
	require.NotEmpty(t, c.Cards)
	assert.NotNil(t, c.Ads)
	assert.NotNil(t, c.Friends)
}

func TestCatalog_SortedMenus(t *testing.T) {
	c := &Catalog{
		Menus: []Menu{
			{ID: 1, Name: "second", Order: 2},
			{ID: 2, Name: "first", Order: 1},
			{ID: 3, Name: "third", Order: 3},
		},
	}

	menus := c.SortedMenus()
	require.Len(t, menus, 3)
	assert.Equal(t, "first", menus[0].Name)
	assert.Equal(t, "second", menus[1].Name)
	assert.Equal(t, "third", menus[2].Name)
	// original order untouched
	assert.Equal(t, "second", c.Menus[0].Name)
}

func TestCatalog_CardsForMenu(t *testing.T) {
	c := &Catalog{
		Cards: []Card{
			{ID: 1, MenuID: 1, Title: "one"},
			{ID: 2, MenuID: 2, Title: "two"},
			{ID: 3, MenuID: 1, Title: "three"},
		},
	}

	menu1 := c.CardsForMenu(1)
	require.Len(t, menu1, 2)
	assert.Equal(t, "one", menu1[0].Title)
	assert.Equal(t, "three", menu1[1].Title)

	// no menu 0, an unmatched id yields an empty list
	assert.Empty(t, c.CardsForMenu(0))
	assert.Empty(t, c.CardsForMenu(42))
}

func TestLoadCatalog(t *testing.T) {
	catalogJson := `{
		"menus": [{"id": 1, "name": "Tools", "icon": "x", "order": 1}],
		"cards": [{"id": 1, "menuId": 1, "title": "Google", "url": "https://google.com"}]
	}`
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJson), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Menus, 1)
	require.Len(t, c.Cards, 1)
	assert.Equal(t, "Google", c.Cards[0].Title)
	// absent collections are normalized to empty, not null
	assert.NotNil(t, c.Ads)
	assert.NotNil(t, c.Friends)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
