// Package registry resolves free-text river queries against the on-disk
// river directory.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/river-quality-service/internal/domain"
)

// Resolver matches queries against the registry file. The file is re-read on
// every resolution so directory edits show up without a restart; a missing
// or malformed file resolves nothing rather than failing.
type Resolver struct {
	path   string
	logger *slog.Logger
}

// NewResolver creates a Resolver over the registry file at path.
func NewResolver(path string, logger *slog.Logger) *Resolver {
	return &Resolver{path: path, logger: logger}
}

// Resolve matches a free-text query in three tiers, first match in registry
// order winning at each tier:
//
//  1. exact id or name
//  2. exact alias
//  3. query contained in a name or alias
//
// All comparisons are case-insensitive on the trimmed query.
func (r *Resolver) Resolve(query string) (domain.River, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	rivers := r.load()

	for _, river := range rivers {
		if strings.ToLower(river.ID) == q || strings.ToLower(river.Name) == q {
			return river, true
		}
	}

	for _, river := range rivers {
		for _, alias := range river.Aliases {
			if strings.ToLower(alias) == q {
				return river, true
			}
		}
	}

	for _, river := range rivers {
		if strings.Contains(strings.ToLower(river.Name), q) {
			return river, true
		}
		for _, alias := range river.Aliases {
			if strings.Contains(strings.ToLower(alias), q) {
				return river, true
			}
		}
	}

	return domain.River{}, false
}

// Check reports whether the registry file is currently readable and
// well-formed. Used by the readiness probe.
func (r *Resolver) Check() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	var rivers []domain.River
	if err := json.Unmarshal(raw, &rivers); err != nil {
		return fmt.Errorf("parse registry: %w", err)
	}
	return nil
}

func (r *Resolver) load() []domain.River {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Warn("registry file unreadable, treating as empty", "path", r.path, "error", err)
		return nil
	}

	var rivers []domain.River
	if err := json.Unmarshal(raw, &rivers); err != nil {
		r.logger.Warn("registry file malformed, treating as empty", "path", r.path, "error", err)
		return nil
	}
	return rivers
}
