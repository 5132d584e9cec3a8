package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbCounter atomic.Int64

// NewSQLiteMemoryDB opens an isolated in-memory SQLite database. Each call
// gets its own database so parallel tests do not share state.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:pagekit_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	return sql.Open("sqlite3", dsn)
}

// NewBunDB wraps a fresh in-memory SQLite database with bun.
func NewBunDB() (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}
