package main

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"vibe/pkg/db/sqlite"
)

var db *sql.DB

func dbPath() string {
	if p := os.Getenv("VIBE_DB"); p != "" {
		return p
	}
	return "vibe.db"
}

// initDB connects through the sqlite package, which also applies migrations.
func initDB() {
	db = sqlite.Connect(dbPath())
}
