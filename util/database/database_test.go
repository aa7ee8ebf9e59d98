package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	names, err := MigrationFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"001_lending.sql"}, names)

	sql, err := migrations.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	for _, table := range []string{"books", "borrows", "bookings", "settings", "donation_requests"} {
		require.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	require.True(t, strings.Contains(string(sql), "WHERE status = 'in_progress'"))
}
