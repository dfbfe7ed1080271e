package marketplace

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenDatabase opens a bun handle for the given driver. The result is what
// di.WithBunDB expects. Supported drivers are "postgres" and "sqlite3".
func OpenDatabase(driver, dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	switch driver {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	case "sqlite3":
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
