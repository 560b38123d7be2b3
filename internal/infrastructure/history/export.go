package history

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/wtf-go/internal/domain"
)

// Export copies the whole history to dest and returns how many entries were
// written. A .db or .sqlite extension produces a SQLite database, anything
// else JSON Lines.
func (s *FileStore) Export(ctx context.Context, dest string) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirectoryPermissions); err != nil {
		return 0, err
	}
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".db", ".sqlite", ".sqlite3":
		err = ExportSQLite(ctx, dest, entries)
	default:
		err = ExportJSONL(dest, entries)
	}
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// ExportJSONL writes one JSON object per line.
func ExportJSONL(dest string, entries []domain.HistoryEntry) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ExportSQLite writes entries into a translations table at dest, replacing
// any rows from an earlier export.
func ExportSQLite(ctx context.Context, dest string, entries []domain.HistoryEntry) error {
	db, err := sql.Open("sqlite", dest)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		prompt TEXT,
		command TEXT,
		success INTEGER,
		provider TEXT,
		model TEXT,
		latency REAL,
		error TEXT,
		metadata TEXT
	);`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM translations"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO translations
		(timestamp, prompt, command, success, provider, model, latency, error, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		meta, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			entry.Timestamp.Format(time.RFC3339),
			entry.Prompt,
			entry.Command,
			boolToInt(entry.Success),
			entry.MetaString(domain.MetaProvider, ""),
			entry.MetaString(domain.MetaModel, ""),
			entry.Latency(),
			entry.MetaString(domain.MetaError, ""),
			string(meta),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
