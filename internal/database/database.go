// Package database loads parsed entries into SQLite for ad-hoc SQL queries
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"proxy-log-analyzer/internal/config"
	"proxy-log-analyzer/internal/models"
)

// DB interface defines database operations for easier testing and extensibility
type DB interface {
	Close() error
	Begin() (*sql.Tx, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// sqliteDB implements the DB interface for SQLite
type sqliteDB struct {
	*sql.DB
}

// QueryResult holds the rows of a query with columns in select order
type QueryResult struct {
	Columns []string
	Rows    [][]interface{}
}

// Records returns one column-to-value map per row
func (r *QueryResult) Records() []map[string]interface{} {
	records := make([]map[string]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		record := make(map[string]interface{}, len(r.Columns))
		for j, column := range r.Columns {
			record[column] = row[j]
		}
		records[i] = record
	}
	return records
}

// Initialize opens a SQLite database and creates the entries table.
// The sql command always passes config.InMemoryDatabase so nothing outlives the process.
func Initialize(dbPath string) (DB, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to :memory: would see its own empty database
	sqlDB.SetMaxOpenConns(1)

	db := &sqliteDB{sqlDB}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables sets up the entries table and indexes on the grouped columns.
// timestamp holds RFC 3339 text so SQLite date functions apply; it is NULL
// when the record had no parseable timestamp.
func createTables(db DB) error {
	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		line INTEGER PRIMARY KEY,
		timestamp TEXT,
		date TEXT,
		agent TEXT NOT NULL,
		clientip TEXT NOT NULL,
		status INTEGER NOT NULL,
		method TEXT NOT NULL,
		schema TEXT NOT NULL,
		length INTEGER NOT NULL CHECK (length >= 0),
		request TEXT NOT NULL,
		referrer TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_date ON %[1]s(date);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_clientip ON %[1]s(clientip);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_status ON %[1]s(status);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_method ON %[1]s(method);
	`, config.EntriesTableName)

	_, err := db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// InsertLogEntries inserts entries in a single transaction and returns how many were stored
func InsertLogEntries(db DB, entries []models.LogEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
	INSERT INTO %s (line, timestamp, date, agent, clientip, status, method, schema, length, request, referrer)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, config.EntriesTableName))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var insertedCount int64
	for _, entry := range entries {
		var timestamp, date interface{}
		if !entry.Timestamp.IsZero() {
			timestamp = entry.Timestamp.Format(time.RFC3339)
			date = entry.Date()
		}

		_, err := stmt.Exec(entry.Line, timestamp, date, entry.Agent, entry.ClientIP, entry.Status,
			entry.Method, entry.Schema, int64(entry.Length), entry.Request, entry.Referrer)
		if err != nil {
			return insertedCount, fmt.Errorf("failed to insert entry %d: %w", entry.Line, err)
		}
		insertedCount++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit entries: %w", err)
	}

	return insertedCount, nil
}

// ExecuteQuery executes a SQL query and returns its columns and rows.
// Byte slices are converted to strings.
func ExecuteQuery(db DB, query string) (*QueryResult, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &QueryResult{Columns: columns}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}

		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}
