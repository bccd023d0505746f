// Package sqlstore materializes the tracker's derived series into sqlite:
// daily holdings, cash balances and base-currency prices. The tables hold
// no business logic, they are a queryable snapshot for external tools.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/arofre/FinTrack"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store wraps the sqlite database holding the materialized series.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies pending schema
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Materialize writes one row per day (and per held ticker) over the range,
// reading everything from the tracker. Existing rows for the same keys are
// replaced, so re-materializing a range is idempotent.
func (s *Store) Materialize(ctx context.Context, tracker *fintrack.Tracker, r fintrack.Range) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for on := range r.Days() {
		balance, err := tracker.CashOn(on)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO cash (date, balance, currency) VALUES (?, ?, ?)`,
			on.String(), balance.Decimal().String(), balance.Currency()); err != nil {
			return err
		}

		holdings, err := tracker.HoldingsOn(on)
		if err != nil {
			return err
		}
		for _, h := range holdings {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO holdings (date, ticker, shares) VALUES (?, ?, ?)`,
				on.String(), h.Ticker, h.Shares.String()); err != nil {
				return err
			}
			price, err := tracker.PriceOn(h.Ticker, on)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO prices (date, ticker, price, currency) VALUES (?, ?, ?, ?)`,
				on.String(), h.Ticker, price.Decimal().String(), price.Currency()); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// HoldingRow is one materialized position.
type HoldingRow struct {
	Date   fintrack.Date
	Ticker string
	Shares fintrack.Quantity
}

// HoldingsOn reads the materialized positions of a day, sorted by ticker.
func (s *Store) HoldingsOn(ctx context.Context, on fintrack.Date) ([]HoldingRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker, shares FROM holdings WHERE date = ? ORDER BY ticker`, on.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []HoldingRow
	for rows.Next() {
		var ticker, shares string
		if err := rows.Scan(&ticker, &shares); err != nil {
			return nil, err
		}
		qty, err := decimal.NewFromString(shares)
		if err != nil {
			return nil, fmt.Errorf("corrupt shares %q for %s: %w", shares, ticker, err)
		}
		holdings = append(holdings, HoldingRow{Date: on, Ticker: ticker, Shares: fintrack.Q(qty)})
	}
	return holdings, rows.Err()
}

// CashOn reads the materialized cash balance of a day. The bool reports
// whether the day was materialized.
func (s *Store) CashOn(ctx context.Context, on fintrack.Date) (fintrack.Money, bool, error) {
	var balance, currency string
	err := s.db.QueryRowContext(ctx,
		`SELECT balance, currency FROM cash WHERE date = ?`, on.String()).Scan(&balance, &currency)
	if err == sql.ErrNoRows {
		return fintrack.Money{}, false, nil
	}
	if err != nil {
		return fintrack.Money{}, false, err
	}
	dec, err := decimal.NewFromString(balance)
	if err != nil {
		return fintrack.Money{}, false, fmt.Errorf("corrupt balance %q: %w", balance, err)
	}
	return fintrack.M(dec, currency), true, nil
}

// PriceOn reads the materialized base-currency price of a ticker on a day.
func (s *Store) PriceOn(ctx context.Context, ticker string, on fintrack.Date) (fintrack.Money, bool, error) {
	var price, currency string
	err := s.db.QueryRowContext(ctx,
		`SELECT price, currency FROM prices WHERE date = ? AND ticker = ?`, on.String(), ticker).Scan(&price, &currency)
	if err == sql.ErrNoRows {
		return fintrack.Money{}, false, nil
	}
	if err != nil {
		return fintrack.Money{}, false, err
	}
	dec, err := decimal.NewFromString(price)
	if err != nil {
		return fintrack.Money{}, false, fmt.Errorf("corrupt price %q: %w", price, err)
	}
	return fintrack.M(dec, currency), true, nil
}
