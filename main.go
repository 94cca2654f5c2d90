// Command gridview runs the reporting backend. With SQL Server connection
// details in the environment it serves the HTTP API against the real stored
// procedures; without them it runs a self-contained SQLite demo that walks
// the whole pipeline: materialize, infer, search, filter, sort, window,
// export.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/asaidimu/go-gridview/core/grid"
	"github.com/asaidimu/go-gridview/core/report"
	"github.com/asaidimu/go-gridview/export"
	"github.com/asaidimu/go-gridview/server"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", ":8050", "HTTP listen address")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if dsn := sqlServerDSN(); dsn != "" {
		if err := serve(logger, dsn, *addr); err != nil {
			logger.Fatal("Server exited", zap.Error(err))
		}
		return
	}

	logger.Info("No database configured, running local demo")
	if err := demo(logger); err != nil {
		logger.Fatal("Demo failed", zap.Error(err))
	}
}

// sqlServerDSN assembles the SQL Server connection string from the
// environment, or returns "" when no endpoint is configured. Credential
// resolution lives here, outside the core, which only ever sees an open
// handle.
func sqlServerDSN() string {
	host := os.Getenv("DB_SERVER")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:   host,
	}
	q := url.Values{}
	q.Set("database", os.Getenv("DB_NAME"))
	q.Set("TrustServerCertificate", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

func serve(logger *zap.Logger, dsn, addr string) error {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	svc, err := server.New(server.Config{DB: db, Driver: "sqlserver", Logger: logger})
	if err != nil {
		return err
	}

	unsubscribe := svc.Subscribe(grid.QuerySuccess, func(ctx context.Context, event grid.Event) error {
		logger.Info("Query completed",
			zap.String("report", event.Report),
			zap.Intp("rows", event.Rows),
			zap.Int64p("duration_ms", event.Duration))
		return nil
	})
	defer unsubscribe()

	logger.Info("Serving report API", zap.String("addr", addr))
	return svc.Router().Run(addr)
}

// demo exercises the engine end to end against an in-memory SQLite fixture.
func demo(logger *zap.Logger) error {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open demo database: %w", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE personnel (
			id INTEGER PRIMARY KEY,
			full_name TEXT NOT NULL,
			rank TEXT,
			salary REAL,
			enlisted_at DATETIME,
			active BOOLEAN NOT NULL
		)`,
		`INSERT INTO personnel VALUES
			(1, 'Ann Harper',  'Captain',  5200.5, '2015-03-01 00:00:00', 1),
			(2, 'Bob Reyes',   'Sergeant', 3100.0, '2018-07-15 00:00:00', 1),
			(3, 'cara Linden', 'Private',  NULL,   '2021-01-20 00:00:00', 0),
			(4, 'Dina Moss',   'Sergeant', 3300.0, '2019-11-02 00:00:00', 1)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	executor := report.NewExecutor(db, "sqlite3", logger)
	result, err := executor.Query(context.Background(), "demo.personnel",
		"SELECT id, full_name, rank, salary, enlisted_at, active FROM personnel ORDER BY id", nil)
	if err != nil {
		return err
	}

	store := grid.NewSessionStore()
	session := store.Get("")
	columns := session.Load("military", result, grid.DefaultInferOptions())
	for _, col := range columns {
		logger.Info("Inferred column",
			zap.String("field", col.Field),
			zap.String("kind", string(col.Kind)),
			zap.String("filter", string(col.Filter)))
	}

	engine := grid.NewEngine(grid.DefaultEngineOptions(), logger)
	req := grid.NewRequestBuilder().
		Window(0, 10).
		Search("a").
		Where("rank").In("Captain", "Sergeant").
		SortBy("salary", grid.SortDesc).
		Build()

	resp, _, err := session.Rows(engine, req)
	if err != nil {
		return err
	}
	logger.Info("Row window served", zap.Int("rowCount", resp.RowCount), zap.Int("window", len(resp.RowData)))
	for _, row := range resp.RowData {
		logger.Info("Row", zap.String("name", row["full_name"].String()), zap.String("salary", row["salary"].String()))
	}

	_, view, _ := session.CurrentView()
	filename, data, err := export.NewExporter(logger).Export("military", view)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Info("Demo export written", zap.String("filename", filename))
	return nil
}
