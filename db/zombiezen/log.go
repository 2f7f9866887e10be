package zombiezen

import (
	"fmt"

	"github.com/caasmo/alabaster/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schemaLogs = `CREATE TABLE IF NOT EXISTS logs (
	id INTEGER PRIMARY KEY,
	level INTEGER NOT NULL,
	message TEXT NOT NULL,
	data TEXT NOT NULL,
	created TEXT NOT NULL
);`

// NewConn creates a new SQLite connection for logging purposes with
// performance oriented pragmas. The logs table is created if missing.
func NewConn(dbPath string) (*sqlite.Conn, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=off", dbPath)

	conn, err := sqlite.OpenConn(dsn, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open logging connection: %w", err)
	}

	if err := sqlitex.ExecuteTransient(conn, schemaLogs, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}

	return conn, nil
}

// InsertLogs writes a batch of log entries to the SQLite database.
// It uses an explicit transaction that will be rolled back on any error.
func InsertLogs(conn *sqlite.Conn, batch []db.Log) error {
	if len(batch) == 0 {
		return nil
	}

	err := sqlitex.Execute(conn, "BEGIN IMMEDIATE;", nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback on any early exit
	defer func() {
		if err != nil {
			_ = sqlitex.Execute(conn, "ROLLBACK;", nil)
		}
	}()

	stmt, err := conn.Prepare("INSERT INTO logs (level, message, data, created) VALUES ($level, $message, $data, $created)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Finalize()

	for _, entry := range batch {
		stmt.SetInt64("$level", entry.Level)
		stmt.SetText("$message", entry.Message)
		stmt.SetText("$data", entry.JsonData)
		stmt.SetText("$created", entry.Created)

		if _, err = stmt.Step(); err != nil {
			stmt.Reset()
			return fmt.Errorf("failed to execute statement for record (msg: %q): %w", entry.Message, err)
		}
		stmt.Reset()
	}

	if err = sqlitex.Execute(conn, "COMMIT;", nil); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CountLogs returns the number of persisted rows. Used by tests and the
// operational tooling.
func CountLogs(conn *sqlite.Conn) (int64, error) {
	var count int64
	err := sqlitex.ExecuteTransient(conn, "SELECT COUNT(*) FROM logs;", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}
