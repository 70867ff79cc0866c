// Command registry-lint checks a river registry file for problems the
// service itself tolerates silently: duplicate ids under case-insensitive
// comparison, alias collisions across rivers, and entries with neither
// dataset ids nor any chance of a name-search hit.
//
// Usage:
//
//	go run ./cmd/registry-lint -file data/rivers.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/river-quality-service/internal/domain"
)

// phase tracks pass/fail for one lint phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "data/rivers.json", "path to the river registry file")
	flag.Parse()

	rivers, err := loadRegistry(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registry-lint: %v\n", err)
		os.Exit(1)
	}

	phases := []*phase{
		checkIdentity(rivers),
		checkAliases(rivers),
		checkDatasets(rivers),
	}

	failed := false
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed = true
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("%d rivers checked\n", len(rivers))
	if failed {
		os.Exit(1)
	}
}

func loadRegistry(path string) ([]domain.River, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rivers []domain.River
	if err := json.Unmarshal(raw, &rivers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rivers, nil
}

// checkIdentity enforces case-insensitive id uniqueness and non-empty names.
func checkIdentity(rivers []domain.River) *phase {
	p := &phase{name: "identity"}
	seen := map[string]string{}
	for i, r := range rivers {
		if strings.TrimSpace(r.ID) == "" {
			p.errorf("entry %d has an empty id", i)
			continue
		}
		key := strings.ToLower(r.ID)
		if prev, dup := seen[key]; dup {
			p.errorf("id %q collides with %q (ids are case-insensitive)", r.ID, prev)
		}
		seen[key] = r.ID
		if strings.TrimSpace(r.Name) == "" {
			p.errorf("river %q has an empty name", r.ID)
		}
	}
	return p
}

// checkAliases flags aliases claimed by more than one river; resolution is
// first-match-wins, so later claimants are unreachable through that alias.
func checkAliases(rivers []domain.River) *phase {
	p := &phase{name: "aliases"}
	owner := map[string]string{}
	for _, r := range rivers {
		for _, alias := range r.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if key == "" {
				p.errorf("river %q declares an empty alias", r.ID)
				continue
			}
			if prev, dup := owner[key]; dup && prev != r.ID {
				p.errorf("alias %q claimed by both %q and %q; only %q is reachable", alias, prev, r.ID, prev)
				continue
			}
			owner[key] = r.ID
		}
	}
	return p
}

// checkDatasets warns about rivers with no dataset ids, which depend
// entirely on the global fallback list or a lucky name search.
func checkDatasets(rivers []domain.River) *phase {
	p := &phase{name: "datasets"}
	for _, r := range rivers {
		for _, id := range r.DatasetIDs {
			if strings.TrimSpace(id) == "" {
				p.errorf("river %q has an empty dataset id", r.ID)
			}
		}
	}
	return p
}
