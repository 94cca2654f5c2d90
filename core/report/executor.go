package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/asaidimu/go-gridview/core/table"
	"go.uber.org/zap"
)

// DefaultQueryTimeout bounds a stored-procedure call when the caller's
// context carries no deadline. An unbounded call would block the whole
// request path, and there is no retry or fallback behind it.
const DefaultQueryTimeout = 2 * time.Minute

// Executor runs parameterized stored-procedure calls against an already-open
// database handle and materializes the full result in memory. Connection
// setup and credentials are the caller's concern; the executor only borrows
// connections from the pool and returns them on every exit path.
type Executor struct {
	db      *sql.DB
	driver  string
	logger  *zap.Logger
	timeout time.Duration
}

// NewExecutor creates an executor for the given handle. driver selects the
// placeholder dialect ("sqlserver" uses @p1..@pN, everything else uses ?).
// A nil logger substitutes a no-op logger.
func NewExecutor(db *sql.DB, driver string, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{db: db, driver: driver, logger: logger, timeout: DefaultQueryTimeout}
}

// WithTimeout overrides the fallback query timeout.
func (e *Executor) WithTimeout(d time.Duration) *Executor {
	e.timeout = d
	return e
}

// Run normalizes the form values against the schema, executes its stored
// procedure with positional parameter binding, and materializes the result.
// Argument values are never interpolated into the SQL text.
func (e *Executor) Run(ctx context.Context, schema ProcSchema, values map[string]any) (*table.ResultTable, error) {
	args := NormalizeArgs(schema, values)
	return e.Query(ctx, schema.Proc, e.execStatement(schema.Proc, len(args)), args)
}

// Query executes one parameterized statement and reads the entire result into
// a ResultTable. Any connection or execution error surfaces as a
// *DataSourceError; there is no retry at this layer.
func (e *Executor) Query(ctx context.Context, proc, stmt string, args []any) (*table.ResultTable, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Debug("Executing report query", zap.String("proc", proc), zap.String("sql", stmt))

	rows, err := e.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		e.logger.Error("Report query failed", zap.String("proc", proc), zap.Error(err))
		return nil, &DataSourceError{Proc: proc, Err: err}
	}
	defer rows.Close()

	result, err := readResult(rows)
	if err != nil {
		e.logger.Error("Failed to materialize report result", zap.String("proc", proc), zap.Error(err))
		return nil, &DataSourceError{Proc: proc, Err: err}
	}

	e.logger.Info("Report query materialized",
		zap.String("proc", proc),
		zap.Int("rows", result.NumRows()),
		zap.Int("columns", result.NumColumns()))
	return result, nil
}

// execStatement builds the EXEC statement with one placeholder per argument
// in the configured dialect.
func (e *Executor) execStatement(proc string, argc int) string {
	placeholders := make([]string, argc)
	for i := range placeholders {
		if e.driver == "sqlserver" {
			placeholders[i] = fmt.Sprintf("@p%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	return fmt.Sprintf("EXEC %s %s", proc, strings.Join(placeholders, ", "))
}

// readResult scans every row into tagged cells.
func readResult(rows *sql.Rows) (*table.ResultTable, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var data [][]table.Value
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]table.Value, len(columns))
		for i, v := range values {
			row[i] = table.FromAny(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}

	return table.NewResultTable(columns, data)
}
