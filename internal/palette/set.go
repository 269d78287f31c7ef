package palette

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Set bundles the resolvers for each kind of label the dashboard colors.
type Set struct {
	Category *Resolver
	Team     *Resolver
	Quarter  *Resolver
}

// Overrides is the on-disk shape of a palette file:
//
//	[category]
//	"Chat features" = "#112233"
//	[team]
//	Frontend = "#445566"
type Overrides struct {
	Category map[string]string `toml:"category"`
	Team     map[string]string `toml:"team"`
	Quarter  map[string]string `toml:"quarter"`
}

// DefaultSet returns the built-in palettes.
func DefaultSet() *Set {
	q := mustResolver(quarterHex)
	q.suffix = true
	return &Set{
		Category: mustResolver(categoryHex),
		Team:     mustResolver(teamHex),
		Quarter:  q,
	}
}

// Apply merges overrides over the set's tables.
func (s *Set) Apply(o Overrides) error {
	if err := s.Category.merge(o.Category); err != nil {
		return fmt.Errorf("category palette: %w", err)
	}
	if err := s.Team.merge(o.Team); err != nil {
		return fmt.Errorf("team palette: %w", err)
	}
	if err := s.Quarter.merge(o.Quarter); err != nil {
		return fmt.Errorf("quarter palette: %w", err)
	}
	return nil
}

// LoadSet returns the built-in palettes with the TOML file at path merged
// over them. An empty path yields the built-ins.
func LoadSet(path string) (*Set, error) {
	s := DefaultSet()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}
	var o Overrides
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing palette file %s: %w", path, err)
	}
	if err := s.Apply(o); err != nil {
		return nil, err
	}
	return s, nil
}
