// Package db embeds the Postgres schema so the CLI and the integration
// tests can apply it without external tooling.
package db

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migration/*.sql
var migrations embed.FS

// UpMigrations returns the contents of every *.up.sql file in name order.
func UpMigrations() ([]string, error) {
	entries, err := fs.Glob(migrations, "migration/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	out := make([]string, 0, len(entries))
	for _, name := range entries {
		b, err := migrations.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(string(b)))
	}
	return out, nil
}
