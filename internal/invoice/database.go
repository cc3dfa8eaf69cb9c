package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// storedDateLayout is how invoice dates are persisted; absent dates are NULL.
const storedDateLayout = "2006-01-02"

// Store persists the extracted record tables.
type Store interface {
	// CreateSchema creates the item and totals tables if they do not exist.
	CreateSchema(ctx context.Context) error

	// InsertOrReplaceItem upserts an item keyed by
	// (invoice number, item number, position).
	InsertOrReplaceItem(ctx context.Context, item ItemRecord) error

	// InsertOrIgnoreTotal inserts a totals record keyed by invoice number;
	// an existing record for the same invoice wins.
	InsertOrIgnoreTotal(ctx context.Context, total TotalsRecord) error

	// FetchAll returns every persisted record in insertion order.
	FetchAll(ctx context.Context) ([]ItemRecord, []TotalsRecord, error)

	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS items (
	item_number    TEXT NOT NULL,
	position       INTEGER NOT NULL,
	quantity       TEXT NOT NULL,
	unit_price     TEXT NOT NULL,
	product_code   TEXT NOT NULL,
	discount_pct   TEXT NOT NULL,
	tax_pct        TEXT NOT NULL,
	net_value      TEXT NOT NULL,
	description    TEXT NOT NULL,
	invoice_number TEXT NOT NULL,
	invoice_date   TEXT,
	PRIMARY KEY (invoice_number, item_number, position)
);
CREATE TABLE IF NOT EXISTS totals (
	invoice_number TEXT NOT NULL PRIMARY KEY,
	shipping       TEXT NOT NULL,
	net_value      TEXT NOT NULL,
	tax_pct        TEXT NOT NULL,
	tax_amount     TEXT NOT NULL,
	total_amount   TEXT NOT NULL,
	invoice_date   TEXT
);`

// CreateSchema creates the record tables if they do not exist.
func (s *SQLiteStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// InsertOrReplaceItem upserts an item record.
func (s *SQLiteStore) InsertOrReplaceItem(ctx context.Context, item ItemRecord) error {
	const q = `INSERT OR REPLACE INTO items
		(item_number, position, quantity, unit_price, product_code,
		 discount_pct, tax_pct, net_value, description, invoice_number, invoice_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		item.ItemNumber,
		item.Position,
		item.Quantity.String(),
		item.UnitPrice.String(),
		item.ProductCode,
		item.DiscountPct.String(),
		item.TaxPct.String(),
		item.NetValue.String(),
		item.Description,
		item.InvoiceNumber,
		nullDate(item.InvoiceDate),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// InsertOrIgnoreTotal inserts a totals record unless one already exists for
// the invoice.
func (s *SQLiteStore) InsertOrIgnoreTotal(ctx context.Context, total TotalsRecord) error {
	const q = `INSERT OR IGNORE INTO totals
		(invoice_number, shipping, net_value, tax_pct, tax_amount, total_amount, invoice_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		total.InvoiceNumber,
		total.Shipping.String(),
		total.NetValue.String(),
		total.TaxPct.String(),
		total.TaxAmount.String(),
		total.TotalAmount.String(),
		nullDate(total.InvoiceDate),
	)
	if err != nil {
		return fmt.Errorf("inserting total: %w", err)
	}
	return nil
}

// FetchAll returns every persisted item and totals record in insertion order.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]ItemRecord, []TotalsRecord, error) {
	items, err := s.fetchItems(ctx)
	if err != nil {
		return nil, nil, err
	}
	totals, err := s.fetchTotals(ctx)
	if err != nil {
		return nil, nil, err
	}
	return items, totals, nil
}

func (s *SQLiteStore) fetchItems(ctx context.Context) ([]ItemRecord, error) {
	const q = `SELECT item_number, position, quantity, unit_price, product_code,
		discount_pct, tax_pct, net_value, description, invoice_number, invoice_date
		FROM items ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []ItemRecord
	for rows.Next() {
		var (
			item                           ItemRecord
			qty, price, discount, tax, net string
			date                           sql.NullString
		)
		if err := rows.Scan(&item.ItemNumber, &item.Position, &qty, &price,
			&item.ProductCode, &discount, &tax, &net,
			&item.Description, &item.InvoiceNumber, &date); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		if item.Quantity, err = parseStored(qty); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = parseStored(price); err != nil {
			return nil, err
		}
		if item.DiscountPct, err = parseStored(discount); err != nil {
			return nil, err
		}
		if item.TaxPct, err = parseStored(tax); err != nil {
			return nil, err
		}
		if item.NetValue, err = parseStored(net); err != nil {
			return nil, err
		}
		if item.InvoiceDate, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) fetchTotals(ctx context.Context) ([]TotalsRecord, error) {
	const q = `SELECT invoice_number, shipping, net_value, tax_pct, tax_amount,
		total_amount, invoice_date FROM totals ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	var totals []TotalsRecord
	for rows.Next() {
		var (
			total                                      TotalsRecord
			shipping, net, tax, taxAmount, totalAmount string
			date                                       sql.NullString
		)
		if err := rows.Scan(&total.InvoiceNumber, &shipping, &net, &tax,
			&taxAmount, &totalAmount, &date); err != nil {
			return nil, fmt.Errorf("scanning totals row: %w", err)
		}
		if total.Shipping, err = parseStored(shipping); err != nil {
			return nil, err
		}
		if total.NetValue, err = parseStored(net); err != nil {
			return nil, err
		}
		if total.TaxPct, err = parseStored(tax); err != nil {
			return nil, err
		}
		if total.TaxAmount, err = parseStored(taxAmount); err != nil {
			return nil, err
		}
		if total.TotalAmount, err = parseStored(totalAmount); err != nil {
			return nil, err
		}
		if total.InvoiceDate, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating totals: %w", err)
	}
	return totals, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(storedDateLayout)
}

func parseStored(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing stored value %q: %w", value, err)
	}
	return d, nil
}

func parseStoredDate(value sql.NullString) (time.Time, error) {
	if !value.Valid {
		return time.Time{}, nil
	}
	t, err := time.Parse(storedDateLayout, value.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date %q: %w", value.String, err)
	}
	return t, nil
}
