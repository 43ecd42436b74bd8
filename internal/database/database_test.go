package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pennywise/internal/database"
)

func TestConstraintViolations(t *testing.T) {
	fk := fmt.Errorf("deleting category: %w", &pgconn.PgError{Code: "23503"})
	unique := fmt.Errorf("creating user: %w", &pgconn.PgError{Code: "23505"})
	other := errors.New("connection refused")

	assert.True(t, database.IsForeignKeyViolation(fk))
	assert.False(t, database.IsForeignKeyViolation(unique))
	assert.True(t, database.IsUniqueViolation(unique))
	assert.False(t, database.IsUniqueViolation(other))
}
