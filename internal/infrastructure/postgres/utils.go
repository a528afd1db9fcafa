package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// nullString convierte "" en NULL para columnas de texto opcionales.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// derefString lee una columna de texto opcional.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// limitArg traduce limit <= 0 a NULL: LIMIT NULL en PostgreSQL no limita.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func offsetArg(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
