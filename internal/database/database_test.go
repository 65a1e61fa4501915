package database

import (
	"path/filepath"
	"testing"
	"time"

	"proxy-log-analyzer/internal/models"
)

// testEntries returns a small set of entries for query tests
func testEntries() []models.LogEntry {
	ts := time.Date(2023, time.October, 10, 13, 55, 36, 0, time.UTC)
	return []models.LogEntry{
		{Line: 0, Timestamp: ts, Agent: "curl", ClientIP: "10.0.0.1", Status: 200, Method: "GET", Schema: "https", Length: 100, Request: "/a"},
		{Line: 1, Timestamp: ts.Add(24 * time.Hour), Agent: "curl", ClientIP: "10.0.0.2", Status: 404, Method: "GET", Schema: "https", Length: 50, Request: "/b"},
		{Line: 2, ClientIP: "10.0.0.1", Status: 500, Method: "POST", Schema: "http", Length: 25, Request: "/c"},
	}
}

// openTestDB initializes an in-memory database and registers its cleanup
func openTestDB(t *testing.T) DB {
	t.Helper()
	db, err := Initialize(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitialize tests database initialization
func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  string
		wantErr bool
	}{
		{
			name:    "in-memory database",
			dbPath:  ":memory:",
			wantErr: false,
		},
		{
			name:    "file database path",
			dbPath:  filepath.Join(t.TempDir(), "test.db"),
			wantErr: false,
		},
		{
			name:    "directory that does not exist",
			dbPath:  filepath.Join(t.TempDir(), "missing", "test.db"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Initialize(tt.dbPath)

			if (err != nil) != tt.wantErr {
				t.Errorf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				defer db.Close()

				result, err := ExecuteQuery(db, "SELECT name FROM sqlite_master WHERE type='table' AND name='entries';")
				if err != nil {
					t.Errorf("Failed to query database: %v", err)
				}

				if len(result.Rows) != 1 {
					t.Error("Expected entries table to be created")
				}
			}
		})
	}
}

// TestInsertLogEntries tests bulk insertion of log entries
func TestInsertLogEntries(t *testing.T) {
	tests := []struct {
		name         string
		entries      []models.LogEntry
		wantInserted int64
	}{
		{name: "valid entries", entries: testEntries(), wantInserted: 3},
		{name: "empty entries slice", entries: []models.LogEntry{}, wantInserted: 0},
		{name: "nil entries slice", entries: nil, wantInserted: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)

			inserted, err := InsertLogEntries(db, tt.entries)
			if err != nil {
				t.Fatalf("InsertLogEntries() error = %v", err)
			}
			if inserted != tt.wantInserted {
				t.Errorf("InsertLogEntries() inserted = %v, want %v", inserted, tt.wantInserted)
			}

			result, err := ExecuteQuery(db, "SELECT COUNT(*) AS count FROM entries")
			if err != nil {
				t.Fatalf("Failed to verify insertion: %v", err)
			}
			if count, ok := result.Rows[0][0].(int64); !ok || count != tt.wantInserted {
				t.Errorf("Expected %d entries in database, got %v", tt.wantInserted, result.Rows[0][0])
			}
		})
	}
}

// TestInsertDuplicateLine tests that a failed insert rolls back the whole batch
func TestInsertDuplicateLine(t *testing.T) {
	db := openTestDB(t)

	entries := testEntries()
	entries[2].Line = entries[0].Line

	if _, err := InsertLogEntries(db, entries); err == nil {
		t.Fatal("Expected error for duplicate line")
	}

	result, err := ExecuteQuery(db, "SELECT COUNT(*) FROM entries")
	if err != nil {
		t.Fatal(err)
	}
	if result.Rows[0][0].(int64) != 0 {
		t.Errorf("Expected rollback to leave no rows, got %v", result.Rows[0][0])
	}
}

// TestExecuteQuery tests column order, typing and NULL timestamps
func TestExecuteQuery(t *testing.T) {
	db := openTestDB(t)
	if _, err := InsertLogEntries(db, testEntries()); err != nil {
		t.Fatal(err)
	}

	result, err := ExecuteQuery(db, `SELECT clientip, COUNT(*) AS hits, SUM(length) AS bytes
		FROM entries GROUP BY clientip ORDER BY hits DESC, clientip`)
	if err != nil {
		t.Fatalf("ExecuteQuery() error = %v", err)
	}

	wantColumns := []string{"clientip", "hits", "bytes"}
	for i, c := range wantColumns {
		if result.Columns[i] != c {
			t.Errorf("Column %d: expected %q, got %q", i, c, result.Columns[i])
		}
	}

	if len(result.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0][0] != "10.0.0.1" || result.Rows[0][1] != int64(2) || result.Rows[0][2] != int64(125) {
		t.Errorf("Unexpected first row %v", result.Rows[0])
	}

	records := result.Records()
	if records[1]["clientip"] != "10.0.0.2" {
		t.Errorf("Expected second record for 10.0.0.2, got %v", records[1])
	}

	dated, err := ExecuteQuery(db, "SELECT line, date(timestamp) AS day, date FROM entries ORDER BY line")
	if err != nil {
		t.Fatalf("ExecuteQuery() error = %v", err)
	}
	if dated.Rows[1][1] != "2023-10-11" || dated.Rows[1][2] != "2023-10-11" {
		t.Errorf("Expected SQLite date functions on timestamp, got %v", dated.Rows[1])
	}
	if dated.Rows[2][1] != nil || dated.Rows[2][2] != nil {
		t.Errorf("Expected NULL date for an entry without timestamp, got %v", dated.Rows[2])
	}
}

// TestExecuteQueryInvalid tests SQL errors
func TestExecuteQueryInvalid(t *testing.T) {
	db := openTestDB(t)

	if _, err := ExecuteQuery(db, "SELECT nope FROM entries"); err == nil {
		t.Error("Expected error for unknown column")
	}
}
