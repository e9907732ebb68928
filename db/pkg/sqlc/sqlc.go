package sqlc

import (
	"context"
	"database/sql"
	_ "embed"
	"regexp"
	"strings"

	"github.com/pingcap/log"
)

//go:embed schema.sql
var ddl string

var createIndexRegex = regexp.MustCompile(`(?i)\bCREATE\s+(UNIQUE\s+)?INDEX\s+`)

// DBExec is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type DBExec interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Schema returns the embedded DDL.
func Schema() string {
	return ddl
}

// CreateLocalTables applies the embedded schema. Every statement is rewritten
// to IF NOT EXISTS so it can run against an already provisioned database.
func CreateLocalTables(ctx context.Context, db DBExec) error {
	for _, stmt := range statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Warn("Table or index already exists, ignoring error: " + err.Error())
				continue
			}
			return err
		}
	}
	return nil
}

func statements() []string {
	modifiedDDL := strings.ReplaceAll(ddl, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ")
	modifiedDDL = createIndexRegex.ReplaceAllStringFunc(modifiedDDL, func(match string) string {
		if strings.Contains(strings.ToUpper(match), "UNIQUE") {
			return "CREATE UNIQUE INDEX IF NOT EXISTS "
		}
		return "CREATE INDEX IF NOT EXISTS "
	})

	var out []string
	for _, stmt := range strings.Split(modifiedDDL, ";") {
		stmt = stripComments(stmt)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func stripComments(stmt string) string {
	lines := strings.Split(stmt, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
