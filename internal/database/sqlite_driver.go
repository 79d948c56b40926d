package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// sqliteDriverName is go-sqlite3 with the engine's SQL functions attached to
// every connection.
const sqliteDriverName = "sqlite3_oshalog"

var registerSQLiteDriver sync.Once

// SQLite's built-in LOWER only folds ASCII. unicode_lower folds every
// letter, so case-insensitive search works for names like "Émile".
func sqliteDriver() string {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
			},
		})
	})
	return sqliteDriverName
}
