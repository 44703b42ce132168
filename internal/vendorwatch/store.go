package vendorwatch

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists scraped product rows in SQLite.
type Store struct {
	db *sql.DB
}

// Row is one persisted observation.
type Row struct {
	Date           string // YYYY-MM-DD
	Product        string
	RemovalPercent float64
	TenderPrice    float64
}

// OpenStore opens (creating if needed) the database at path and runs the
// schema migration. Parent directories are created.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS vendor_products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			product_name TEXT NOT NULL,
			removal_percentage REAL NOT NULL,
			tender_price REAL NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create vendor_products table: %w", err)
	}
	const index = `
		CREATE INDEX IF NOT EXISTS idx_vendor_products_date
		ON vendor_products(date);
	`
	if _, err := s.db.Exec(index); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Insert stores products observed on the given day.
func (s *Store) Insert(ctx context.Context, day time.Time, products []Product) error {
	const stmt = `
		INSERT INTO vendor_products (date, product_name, removal_percentage, tender_price)
		VALUES (?, ?, ?, ?)
	`
	date := day.Format("2006-01-02")
	for _, p := range products {
		if _, err := s.db.ExecContext(ctx, stmt, date, p.Name, p.RemovalPercent, p.TenderPrice); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}
	return nil
}

// MonthlyRows returns observations for the given month and year, or all
// rows when month or year is zero.
func (s *Store) MonthlyRows(ctx context.Context, month, year int) ([]Row, error) {
	query := `SELECT date, product_name, removal_percentage, tender_price FROM vendor_products`
	args := []any{}
	if month > 0 && year > 0 {
		query += ` WHERE strftime('%Y', date) = ? AND strftime('%m', date) = ?`
		args = append(args, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	}
	query += ` ORDER BY date, product_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Date, &r.Product, &r.RemovalPercent, &r.TenderPrice); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
