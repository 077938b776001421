package meta

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/osobist/wikisync/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// InitDatabase opens (or creates) the client SQLite database at dsn and
// brings the schema up to date with the embedded migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
