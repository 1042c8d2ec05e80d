package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFilePattern = regexp.MustCompile(`^(\d{8,14})_[a-z0-9_]+\.sql$`)

// ValidateDir sanity-checks the SQL migrations in dir before goose sees
// them: versioned filenames, no duplicate versions, both direction markers.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if err := checkMigrationFile(dir, entry.Name(), versions); err != nil {
			return err
		}
	}
	return nil
}

func checkMigrationFile(dir, name string, versions map[string]string) error {
	match := migrationFilePattern.FindStringSubmatch(name)
	if match == nil {
		return fmt.Errorf("invalid migration filename %q (expected <version>_name.sql)", name)
	}
	if other, dup := versions[match[1]]; dup {
		return fmt.Errorf("duplicate migration version %s in %q and %q", match[1], other, name)
	}
	versions[match[1]] = name

	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read migration %q: %w", name, err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(contents), marker) {
			return fmt.Errorf("migration %q missing %q", name, marker)
		}
	}
	return nil
}
