package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gdp-poc/gdp/domain/menu"
)

// SeedFile is the YAML layout of a menu seed. Orders follow list position.
type SeedFile struct {
	Menus  []SeedMenu  `yaml:"menus"`
	Grants []SeedGrant `yaml:"grants"`
}

// SeedMenu is a group in a seed file.
type SeedMenu struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Pages []SeedPage `yaml:"pages"`
}

// SeedPage is a page in a seed file.
type SeedPage struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	DashboardID string `yaml:"dashboard_id"`
	URL         string `yaml:"url"`
	GenieID     string `yaml:"genie_id"`
}

// SeedGrant lists the pages a user may see.
type SeedGrant struct {
	User  string   `yaml:"user"`
	Pages []string `yaml:"pages"`
}

// ParseSeed decodes a seed file.
func ParseSeed(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return SeedFile{}, fmt.Errorf("decode seed: %w", err)
	}
	return f, nil
}

// ReadSeedFile opens and decodes the seed file at path.
func ReadSeedFile(path string) (SeedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("open seed: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ParseSeed(file)
}

// Tree builds the menu tree described by the seed.
func (f SeedFile) Tree() menu.Tree {
	groups := make([]menu.Group, len(f.Menus))
	for i, m := range f.Menus {
		pages := make([]menu.Page, len(m.Pages))
		for j, p := range m.Pages {
			pages[j] = menu.NewPage(p.ID, p.Name, j+1, p.DashboardID, p.URL, p.GenieID)
		}
		groups[i] = menu.NewGroup(m.ID, m.Name, i+1, pages)
	}
	return menu.NewTree(groups)
}

// Seed loads f into an empty store. A store that already holds menus is
// left untouched and ErrNotEmpty is returned.
func (s *Menu) Seed(ctx context.Context, f SeedFile) error {
	empty, err := s.store.Empty(ctx)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if !empty {
		return ErrNotEmpty
	}
	if err := s.Replace(ctx, f.Tree()); err != nil {
		return err
	}
	for _, g := range f.Grants {
		if err := s.grants.Grant(ctx, g.User, g.Pages...); err != nil {
			return fmt.Errorf("grant pages to %s: %w", g.User, err)
		}
	}
	s.logger.Info("seeded menu store",
		"groups", len(f.Menus),
		"grants", len(f.Grants),
	)
	return nil
}
