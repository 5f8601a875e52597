// Package catalog loads and indexes challenge definitions.
//
// A catalog is constructed once at startup from zero or more sources and is
// immutable afterwards; concurrent reads require no locking. Sources are
// merged with later definitions replacing earlier ones on identifier
// collision.
package catalog

import (
	"log/slog"
	"os"
	"sort"

	"github.com/autoagenix/aihem-labs/internal/domain"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable lookup of challenge definitions by identifier.
type Catalog struct {
	byID  map[string]*domain.Challenge
	order []string // ids in ascending order
}

// Load builds the catalog from the YAML definitions at path plus the built-in
// sets. A source that fails to read or parse is skipped with a logged
// warning. When no YAML challenge loads, the small built-in fallback set
// stands in; the built-in advanced set is always merged last and wins on
// identifier collision.
func Load(path string) *Catalog {
	basic := loadYAML(path)
	if len(basic) == 0 {
		basic = builtinChallenges()
	}

	merged := append(basic, advancedChallenges()...)
	cat := build(merged)

	slog.Info("Challenge catalog loaded",
		"basic", len(basic),
		"advanced", len(advancedChallenges()),
		"total", cat.Len())
	return cat
}

// New builds a catalog from explicit definitions, later entries winning on
// identifier collision. Exposed for tests and embedded use.
func New(challenges []domain.Challenge) *Catalog {
	return build(challenges)
}

func build(challenges []domain.Challenge) *Catalog {
	byID := make(map[string]*domain.Challenge, len(challenges))
	for i := range challenges {
		ch := challenges[i]
		byID[ch.ID] = &ch
	}

	order := make([]string, 0, len(byID))
	for id := range byID {
		order = append(order, id)
	}
	sort.Strings(order)

	return &Catalog{byID: byID, order: order}
}

func loadYAML(path string) []domain.Challenge {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Challenge definitions file not readable, using built-in set", "path", path, "error", err)
		return nil
	}

	var doc struct {
		Challenges []domain.Challenge `yaml:"challenges"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Warn("Challenge definitions file failed to parse, using built-in set", "path", path, "error", err)
		return nil
	}

	return doc.Challenges
}

// ByID returns the challenge with the given identifier.
func (c *Catalog) ByID(id string) (*domain.Challenge, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// List returns all challenges in ascending identifier order.
func (c *Catalog) List() []*domain.Challenge {
	out := make([]*domain.Challenge, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ByCategory groups challenges by category, each group in identifier order.
func (c *Catalog) ByCategory() map[string][]*domain.Challenge {
	out := make(map[string][]*domain.Challenge)
	for _, id := range c.order {
		ch := c.byID[id]
		out[ch.Category] = append(out[ch.Category], ch)
	}
	return out
}

// DifficultyHistogram counts challenges per difficulty level. All known
// levels appear in the result, zero-valued when empty.
func (c *Catalog) DifficultyHistogram() map[domain.Difficulty]int {
	out := make(map[domain.Difficulty]int, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		out[d] = 0
	}
	for _, ch := range c.byID {
		if ch.Difficulty.Valid() {
			out[ch.Difficulty]++
		}
	}
	return out
}

// TaxonomyHistogram counts challenges per OWASP taxonomy tag. Challenges
// without a tag are omitted.
func (c *Catalog) TaxonomyHistogram() map[string]int {
	out := make(map[string]int)
	for _, ch := range c.byID {
		if ch.OWASPCategory != "" {
			out[ch.OWASPCategory]++
		}
	}
	return out
}

// TotalPoints sums the point values of all challenges.
func (c *Catalog) TotalPoints() int {
	total := 0
	for _, ch := range c.byID {
		total += ch.Points
	}
	return total
}

// Len returns the number of challenges in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}
