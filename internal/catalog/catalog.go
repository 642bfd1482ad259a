package catalog

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pelletier/go-toml/v2"
	"github.com/sahilm/fuzzy"

	"github.com/cardclash/bot/internal/domain/cards"
)

const searchCacheSize = 256

// File is the on-disk layout of a catalog.
type File struct {
	Templates []cards.Template `toml:"templates"`
}

// Catalog is the read-only set of card templates. It satisfies the
// generator's template source.
type Catalog struct {
	mu        sync.RWMutex
	templates []cards.Template
	byID      map[string]cards.Template
	byRarity  map[cards.Rarity][]cards.Template
	factions  []string
	cache     *lru.Cache
}

func New(templates []cards.Template) (*Catalog, error) {
	cache, err := lru.New(searchCacheSize)
	if err != nil {
		return nil, err
	}
	c := &Catalog{cache: cache}
	if err := c.Replace(templates); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(f.Templates)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return Parse(data)
}

// Replace swaps the template set after validating it. At least one common
// template is required so generation always has a fallback.
func (c *Catalog) Replace(templates []cards.Template) error {
	byID := make(map[string]cards.Template, len(templates))
	byRarity := make(map[cards.Rarity][]cards.Template)
	var factions []string

	for _, t := range templates {
		if t.ID == "" || t.Name == "" {
			return fmt.Errorf("template %q is missing an id or name", t.ID)
		}
		if !t.Rarity.Valid() {
			return fmt.Errorf("template %s has invalid rarity %d", t.ID, int(t.Rarity))
		}
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("duplicate template id %s", t.ID)
		}
		byID[t.ID] = t
		byRarity[t.Rarity] = append(byRarity[t.Rarity], t)
		if t.Faction != "" && !slices.Contains(factions, t.Faction) {
			factions = append(factions, t.Faction)
		}
	}
	if len(byRarity[cards.Common]) == 0 {
		return fmt.Errorf("catalog needs at least one common template")
	}
	slices.Sort(factions)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = slices.Clone(templates)
	c.byID = byID
	c.byRarity = byRarity
	c.factions = factions
	c.cache.Purge()
	return nil
}

func (c *Catalog) ByRarity(r cards.Rarity) []cards.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byRarity[r]
}

func (c *Catalog) ByID(id string) (cards.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byID[id]
	return t, ok
}

// Factions lists every faction with at least one template, sorted.
func (c *Catalog) Factions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.factions)
}

func (c *Catalog) HasFaction(faction string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.factions, faction)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

type searchItems []cards.Template

func (s searchItems) Len() int { return len(s) }

func (s searchItems) String(i int) string { return strings.ToLower(s[i].Name) }

// Search fuzzy-matches template names, best match first. Results are cached
// per normalised query.
func (c *Catalog) Search(query string, limit int) []cards.Template {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []cards.Template
	if cached, ok := c.cache.Get(q); ok {
		results = cached.([]cards.Template)
	} else {
		c.mu.RLock()
		items := searchItems(c.templates)
		matches := fuzzy.FindFrom(q, items)
		results = make([]cards.Template, len(matches))
		for i, m := range matches {
			results[i] = items[m.Index]
		}
		c.mu.RUnlock()
		c.cache.Add(q, results)
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return slices.Clone(results)
}
