// Package executor runs generated SQL text against a database.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
)

// Drivers are the database/sql driver names the executor accepts.
var Drivers = []string{"sqlserver", "mysql", "pgx"}

// Failure is one statement the database rejected.
type Failure struct {
	Index     int
	Statement string
	Err       error
}

// Result summarizes one batch.
type Result struct {
	Executed int
	Failed   int
	Failures []Failure
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if !slices.Contains(Drivers, driver) {
		return nil, fmt.Errorf("unsupported driver %q (must be one of %s)", driver, strings.Join(Drivers, ", "))
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ReadDSN reads a connection string stored on its own in a file.
func ReadDSN(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read connection string: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Run executes every statement of sqlText in order inside one transaction.
// A statement the database rejects is logged and counted; the batch goes on
// and is committed once at the end.
func Run(ctx context.Context, db *sql.DB, sqlText string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stmts := SplitStatements(sqlText)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	result := &Result{}
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			logger.Error("statement failed", "index", i, "statement", stmt, "error", err)
			result.Failed++
			result.Failures = append(result.Failures, Failure{Index: i, Statement: stmt, Err: err})
			continue
		}
		result.Executed++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	logger.Info("statements executed", "executed", result.Executed, "failed", result.Failed)
	return result, nil
}

// RunFile reads the SQL text file at path and runs it.
func RunFile(ctx context.Context, db *sql.DB, path string, logger *slog.Logger) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sql file: %w", err)
	}
	return Run(ctx, db, string(data), logger)
}

// SplitStatements splits sqlText on semicolons outside single-quoted
// literals. Statements are trimmed and blank ones dropped.
func SplitStatements(sqlText string) []string {
	var (
		stmts   []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			stmts = append(stmts, s)
		}
		current.Reset()
	}

	for _, r := range sqlText {
		switch {
		case r == '\'':
			// A doubled quote inside a literal closes and reopens it.
			quoted = !quoted
		case r == ';' && !quoted:
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()
	return stmts
}
