package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("app", "secret", "db", "3306", "wedding")
	assert.True(t, strings.HasPrefix(dsn, "app:secret@tcp(db:3306)/wedding?"), dsn)
	for _, want := range []string{"parseTime=true", "clientFoundRows=true", "charset=utf8mb4"} {
		assert.Contains(t, dsn, want)
	}
}

func TestStatementsCoverEveryTable(t *testing.T) {
	stmts := Statements()
	require.Len(t, stmts, 8)
	for i, table := range []string{"users", "refresh_tokens", "vendor_categories", "vendor_profiles", "services", "vendor_availability", "reservations", "reviews"} {
		assert.True(t, strings.HasPrefix(stmts[i], "CREATE TABLE IF NOT EXISTS "+table+" "), stmts[i])
	}
}

func TestMigrateRunsEachStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range Statements() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCategoriesAndUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, c := range Categories {
		mock.ExpectExec("INSERT INTO vendor_categories").
			WithArgs(c.Name, c.Slug, c.Description, c.Icon).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	for _, u := range SampleUsers {
		mock.ExpectExec("INSERT IGNORE INTO users").
			WithArgs(u.Name, u.Email, sqlmock.AnyArg(), string(u.Role)).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	require.NoError(t, Seed(context.Background(), db, SeedOptions{BcryptCost: 4}))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, Categories, 8)
}
