package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/rfberaldo/sqlz"
)

//go:embed sql-migrations
var sqlMigrationsFs embed.FS

/*
Migrate runs every embedded "commit" script in name order. Scripts are
expected to be re-runnable, so errors about columns or tables that already
exist are ignored.
*/
func Migrate(db *sqlz.DB) error {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if !strings.HasPrefix(d.Name(), "commit") {
			continue
		}

		if b, err = fs.ReadFile(sqlMigrationsFs, path.Join("sql-migrations", d.Name())); err != nil {
			return fmt.Errorf("error reading migration %s: %w", d.Name(), err)
		}

		if err = runSqlScript(db, b); err != nil {
			if !isIgnorableError(err) {
				return fmt.Errorf("error running migration %s: %w", d.Name(), err)
			}
		}

		slog.Debug("migration applied", "name", d.Name())
	}

	return nil
}

func runSqlScript(db *sqlz.DB, script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
