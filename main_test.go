package main

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB swaps the global handle for an in-memory database with the
// full schema applied, restoring the previous handle when the test ends.
func setupTestDB(t *testing.T) {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	schema, err := os.ReadFile("pkg/db/migrations/sqlite/000001_init.up.sql")
	require.NoError(t, err)
	_, err = testDB.Exec(string(schema))
	require.NoError(t, err)

	prev := db
	db = testDB
	t.Cleanup(func() {
		db = prev
		testDB.Close()
	})
}

var testUserSeq int

// createTestUser inserts a user with the given economy state and returns its id.
func createTestUser(t *testing.T, credits, xp, level int, ultimate bool) int {
	t.Helper()

	testUserSeq++
	username := fmt.Sprintf("user%d_%s", testUserSeq, t.Name())

	res, err := db.Exec(`INSERT INTO users
		(username, name, email, password, credits, xp, level, is_ultimate, boost_limit, last_boost_reset, vibe_rank)
		VALUES (?, ?, ?, 'x', ?, ?, ?, ?, 3, ?, 'New Creator')`,
		username, username, username+"@test.local", credits, xp, level, ultimate, today())
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func createTestPost(t *testing.T, userID int, content string) int {
	t.Helper()

	res, err := db.Exec("INSERT INTO posts (user_id, content) VALUES (?, ?)", userID, content)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func userState(t *testing.T, userID int) (credits, xp, level int) {
	t.Helper()
	err := db.QueryRow("SELECT credits, xp, level FROM users WHERE id = ?", userID).Scan(&credits, &xp, &level)
	require.NoError(t, err)
	return
}
