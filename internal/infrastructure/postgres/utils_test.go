package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en texto no cuenta")))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	require.NotNil(t, nullString("x"))
	assert.Equal(t, "x", derefString(nullString("x")))
	assert.Equal(t, "", derefString(nil))
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Nil(t, limitArg(-5))
	assert.Equal(t, 20, limitArg(20))
	assert.Equal(t, 0, offsetArg(-1))
}

func TestMigrateURL(t *testing.T) {
	got, err := migrateURL("postgres://app:secret@db:5432/stock?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://app:secret@db:5432/stock?sslmode=disable", got)

	got, err = migrateURL("postgresql://db/stock")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://db/stock", got)

	_, err = migrateURL("mysql://db/stock")
	assert.Error(t, err)
	_, err = migrateURL("host=db dbname=stock")
	assert.Error(t, err)
}
