package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Catalog is the fixed, read-only data source behind the portal: the
// menu tabs and the link cards shown under them. It has no lifecycle,
// the records are loaded once at startup.

type Menu struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

type Card struct {
	ID          int    `json:"id"`
	MenuID      int    `json:"menuId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type Ad struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

type Friend struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Catalog struct {
	Menus   []Menu   `json:"menus"`
	Cards   []Card   `json:"cards"`
	Ads     []Ad     `json:"ads"`
	Friends []Friend `json:"friends"`
}

// NewDefaultCatalog returns the built-in catalog, used when no catalog
// file is configured
func NewDefaultCatalog() *Catalog {
	return &Catalog{
		Menus: []Menu{
			{ID: 1, Name: "Tools", Icon: "🔧", Order: 1},
			{ID: 2, Name: "Self-hosted", Icon: "🏠", Order: 2},
			{ID: 3, Name: "AI", Icon: "🤖", Order: 3},
			{ID: 4, Name: "Dev", Icon: "💻", Order: 4},
			{ID: 5, Name: "Media", Icon: "🎬", Order: 5},
		},
		Cards: []Card{
			{ID: 1, MenuID: 1, Title: "Google", URL: "https://google.com", Icon: "🌐", Description: "search"},
			{ID: 2, MenuID: 1, Title: "Translate", URL: "https://translate.google.com", Icon: "🈂️", Description: "translator"},
			{ID: 3, MenuID: 4, Title: "GitHub", URL: "https://github.com", Icon: "🐙", Description: "code"},
			{ID: 4, MenuID: 4, Title: "Go docs", URL: "https://pkg.go.dev", Icon: "📚", Description: "package docs"},
		},
		Ads:     []Ad{},
		Friends: []Friend{},
	}
}

// LoadCatalog reads the catalog records from a JSON file
func LoadCatalog(path string) (*Catalog, error) {
	catalogData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(catalogData, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog file %s: %w", path, err)
	}

	if c.Ads == nil {
		c.Ads = []Ad{}
	}
	if c.Friends == nil {
		c.Friends = []Friend{}
	}

	return &c, nil
}

// SortedMenus returns the menus ordered by their Order field
func (c *Catalog) SortedMenus() []Menu {
	menus := make([]Menu, len(c.Menus))
	copy(menus, c.Menus)
	sort.Slice(menus, func(i, j int) bool {
		return menus[i].Order < menus[j].Order
	})
	return menus
}

// CardsForMenu returns the cards belonging to the given menu. A menu
// with no cards yields an empty slice, not nil.
func (c *Catalog) CardsForMenu(menuID int) []Card {
	cards := make([]Card, 0)
	for _, card := range c.Cards {
		if card.MenuID == menuID {
			cards = append(cards, card)
		}
	}
	return cards
}
