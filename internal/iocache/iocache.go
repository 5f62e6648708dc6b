// Package iocache persists analysis run history to a SQL backend and
// exports it for downstream tooling.
package iocache

import (
	"fmt"
	"regexp"

	"github.com/leanlens/leanlens/schema"
)

// Table names for run tracking.
const (
	runsTable   = "leanlens_runs"
	lossesTable = "leanlens_losses"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName ensures the name is a safe SQL identifier: only
// alphanumerics and underscores, starting with a letter or underscore.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
