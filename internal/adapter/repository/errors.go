package repository

import "strings"

// isUniqueViolation identifica violação de chave única do PostgreSQL
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
