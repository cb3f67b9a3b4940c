// Package curriculum holds the topic catalog, selects learning paths for a
// skill level and tracks progress along a path.
package curriculum

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalogFile is the on-disk shape of a catalog
type catalogFile struct {
	Topics []domain.LearningTopic         `yaml:"topics"`
	Levels map[domain.SkillLevel][]string `yaml:"levels"`
}

// Catalog is an immutable set of topics plus the per-level selections.
// It is safe for concurrent use.
type Catalog struct {
	order  []string
	topics map[string]domain.LearningTopic
	levels map[domain.SkillLevel][]string
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// MustDefaultCatalog is DefaultCatalog for callers that treat a broken
// built-in catalog as a programming error.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(f.Topics, f.Levels)
}

// NewCatalog validates topics and level selections and builds a catalog.
// Topic ids must be unique, every prerequisite and selection must name a
// known topic, every skill level needs a selection and hours must be
// positive. Prerequisite cycles are not checked.
func NewCatalog(topics []domain.LearningTopic, levels map[domain.SkillLevel][]string) (*Catalog, error) {
	c := &Catalog{
		topics: make(map[string]domain.LearningTopic, len(topics)),
		levels: make(map[domain.SkillLevel][]string, len(levels)),
	}

	for _, t := range topics {
		if t.ID == "" {
			return nil, fmt.Errorf("topic with empty id")
		}
		if _, dup := c.topics[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic %q", t.ID)
		}
		if t.EstimatedHours <= 0 {
			return nil, fmt.Errorf("topic %q: estimated hours must be positive", t.ID)
		}
		if !t.Difficulty.Valid() {
			return nil, fmt.Errorf("topic %q: %w: %q", t.ID, domain.ErrInvalidSkillLevel, t.Difficulty)
		}
		c.topics[t.ID] = t.Clone()
		c.order = append(c.order, t.ID)
	}

	for _, t := range c.topics {
		for _, pre := range t.Prerequisites {
			if _, ok := c.topics[pre]; !ok {
				return nil, fmt.Errorf("topic %q: unknown prerequisite %q", t.ID, pre)
			}
		}
	}

	for _, level := range domain.SkillLevels {
		ids, ok := levels[level]
		if !ok || len(ids) == 0 {
			return nil, fmt.Errorf("no topics selected for level %s", level)
		}
		for _, id := range ids {
			if _, ok := c.topics[id]; !ok {
				return nil, fmt.Errorf("level %s: unknown topic %q", level, id)
			}
		}
		c.levels[level] = append([]string{}, ids...)
	}

	return c, nil
}

// Topic returns a copy of the topic with the given id
func (c *Catalog) Topic(id string) (domain.LearningTopic, error) {
	t, ok := c.topics[id]
	if !ok {
		return domain.LearningTopic{}, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, id)
	}
	return t.Clone(), nil
}

// Topics returns copies of every topic in catalog order
func (c *Catalog) Topics() []domain.LearningTopic {
	out := make([]domain.LearningTopic, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.topics[id].Clone())
	}
	return out
}

// Len returns the number of topics
func (c *Catalog) Len() int {
	return len(c.order)
}

// SelectForLevel returns copies of the topics offered at level, in order.
// An unknown level selects nothing.
func (c *Catalog) SelectForLevel(level domain.SkillLevel) []domain.LearningTopic {
	ids := c.levels[level]
	out := make([]domain.LearningTopic, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.topics[id].Clone())
	}
	return out
}
