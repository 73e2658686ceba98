package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
)

// Migration is a numbered pair of SQL scripts from the migrations directory.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// ID is the file stem, e.g. "000001_init_schema".
func (m Migration) ID() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// MigrationSet is ordered by ascending version.
type MigrationSet []Migration

// Find looks up a migration by version.
func (s MigrationSet) Find(version int) (Migration, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Version >= version })
	if i < len(s) && s[i].Version == version {
		return s[i], true
	}
	return Migration{}, false
}

func (s MigrationSet) versions() map[int]struct{} {
	out := make(map[int]struct{}, len(s))
	for _, m := range s {
		out[m.Version] = struct{}{}
	}
	return out
}

//go:embed migrations/*.sql
var migrationFiles embed.FS

var bundled = mustParseMigrations(migrationFiles, "migrations")

// BundledMigrations returns the SQL migrations compiled into the binary.
func BundledMigrations() MigrationSet {
	return bundled
}

func mustParseMigrations(fsys fs.FS, dir string) MigrationSet {
	set, err := ParseMigrations(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("bundled migrations: %v", err))
	}
	return set
}

var upFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.up\.sql$`)

// ParseMigrations reads every NNNNNN_name.up.sql in dir together with its
// .down.sql partner. Files that do not follow the naming scheme are ignored;
// a missing down script or a repeated version is an error.
func ParseMigrations(fsys fs.FS, dir string) (MigrationSet, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var set MigrationSet
	seen := map[int]string{}
	for _, entry := range entries {
		match := upFile.FindStringSubmatch(entry.Name())
		if entry.IsDir() || match == nil {
			continue
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", entry.Name(), err)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by %s and %s", version, prev, entry.Name())
		}
		seen[version] = entry.Name()

		m := Migration{Version: version, Name: match[2]}
		up, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, match[1]+"_"+match[2]+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", m.ID(), err)
		}
		m.Up, m.Down = string(up), string(down)
		set = append(set, m)
	}

	sort.Slice(set, func(i, j int) bool { return set[i].Version < set[j].Version })
	return set, nil
}
