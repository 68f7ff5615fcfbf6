package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"tournaments", "players", "tournament_roster", "tournament_matches"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_EnforcesForeignKeys(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec("INSERT INTO tournament_roster (tournament_id, player_id) VALUES (99, 99)")
	assert.Error(t, err, "roster rows must reference an existing tournament and player")
}

func TestInitDB_MissingMigrations(t *testing.T) {
	_, _, err := InitDB(":memory:", "", "", "./does-not-exist")
	assert.Error(t, err)
}
