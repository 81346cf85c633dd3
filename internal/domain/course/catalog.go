package course

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

//go:embed default_catalog.json
var defaultCatalogJSON []byte

var (
	ErrEmptySkill = errors.New("course skill is empty")
	ErrEmptyTitle = errors.New("course title is empty")
)

type Course struct {
	Skill    string `json:"skill"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	URL      string `json:"url,omitempty"`
	Provider string `json:"provider,omitempty"`
}

func (c Course) Validate() error {
	if strings.TrimSpace(c.Skill) == "" {
		return ErrEmptySkill
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Catalog maps skills to recommended courses. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	bySkill map[string]Course
	folded  map[string]string
	exact   bool
}

func NewCatalog(courses ...Course) *Catalog {
	c := &Catalog{
		bySkill: make(map[string]Course, len(courses)),
		folded:  make(map[string]string, len(courses)),
	}
	for _, it := range courses {
		_ = c.Upsert(it)
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := LoadJSON(bytes.NewReader(defaultCatalogJSON))
	if err != nil {
		panic(fmt.Sprintf("course: embedded catalog: %v", err))
	}
	return c
}

// LoadJSON reads a JSON array of courses.
func LoadJSON(r io.Reader) (*Catalog, error) {
	var items []Course
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return NewCatalog(items...), nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}

// WriteJSON writes courses as the indented JSON array LoadJSON reads.
func WriteJSON(w io.Writer, courses []Course) error {
	if courses == nil {
		courses = []Course{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(courses)
}

// SetExactMatch turns off the case and whitespace insensitive fallback in
// Recommend, so only byte-equal skill names match.
func (c *Catalog) SetExactMatch(exact bool) {
	c.mu.Lock()
	c.exact = exact
	c.mu.Unlock()
}

// Recommend looks the skill up exactly, then, unless exact matching is set,
// ignoring case and surrounding whitespace.
func (c *Catalog) Recommend(skill string) (Course, bool) {
	if c == nil {
		return Course{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if it, ok := c.bySkill[skill]; ok {
		return it, true
	}
	if c.exact {
		return Course{}, false
	}
	if key, ok := c.folded[fold(skill)]; ok {
		return c.bySkill[key], true
	}
	return Course{}, false
}

func (c *Catalog) Upsert(it Course) error {
	if err := it.Validate(); err != nil {
		return err
	}
	it.Skill = strings.TrimSpace(it.Skill)

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.folded[fold(it.Skill)]; ok && prev != it.Skill {
		delete(c.bySkill, prev)
	}
	c.bySkill[it.Skill] = it
	c.folded[fold(it.Skill)] = it.Skill
	return nil
}

func (c *Catalog) Delete(skill string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, ok := c.folded[fold(skill)]
	if !ok {
		return false
	}
	delete(c.bySkill, key)
	delete(c.folded, fold(skill))
	return true
}

// Replace swaps the whole table, e.g. after reloading from storage.
func (c *Catalog) Replace(courses []Course) {
	next := NewCatalog(courses...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySkill = next.bySkill
	c.folded = next.folded
}

// All returns the courses sorted by skill.
func (c *Catalog) All() []Course {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	out := make([]Course, 0, len(c.bySkill))
	for _, it := range c.bySkill {
		out = append(out, it)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Skill < out[j].Skill })
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bySkill)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
