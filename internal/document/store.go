package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when a board ID has no library row.
var ErrNotFound = errors.New("board not found")

// Store is the local board library: one row per board, the serialized
// board as a JSON blob plus the columns the listing needs.
type Store struct {
	db *sql.DB
}

// BoardInfo is one library listing row.
type BoardInfo struct {
	ID       string
	Name     string
	Modified time.Time
	Elements int
}

// OpenStore opens the library database, creating it if needed.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS boards (
            id       TEXT PRIMARY KEY,
            name     TEXT NOT NULL,
            modified TEXT NOT NULL,
            elements INTEGER NOT NULL,
            data     TEXT NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("create boards table: %w", err)
	}
	return nil
}

// Put inserts or replaces a board in the library.
func (s *Store) Put(ctx context.Context, id string, b *BoardFile) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO boards (id, name, modified, elements, data)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            modified = excluded.modified,
            elements = excluded.elements,
            data = excluded.data
    `, id, b.Name, b.Modified.UTC().Format(time.RFC3339Nano), len(b.Elements), string(data))
	if err != nil {
		return fmt.Errorf("store board: %w", err)
	}
	return nil
}

// Get loads one board from the library.
func (s *Store) Get(ctx context.Context, id string) (*BoardFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM boards WHERE id = ?`, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var b BoardFile
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, fmt.Errorf("decode board %s: %w", id, err)
	}
	b.sanitize()
	return &b, nil
}

// List returns the library, most recently modified first.
func (s *Store) List(ctx context.Context) ([]BoardInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, modified, elements FROM boards ORDER BY modified DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var out []BoardInfo
	for rows.Next() {
		var info BoardInfo
		var modified string
		if err := rows.Scan(&info.ID, &info.Name, &modified, &info.Elements); err != nil {
			return nil, err
		}
		info.Modified, _ = time.Parse(time.RFC3339Nano, modified)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a board from the library.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the library database.
func (s *Store) Close() error {
	return s.db.Close()
}
