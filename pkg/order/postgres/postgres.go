package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cartflow/pkg/order"
)

// Schema creates the tables the repository writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	address TEXT NOT NULL,
	comments TEXT NOT NULL DEFAULT '',
	total NUMERIC(12,2) NOT NULL,
	message TEXT NOT NULL,
	link TEXT NOT NULL DEFAULT '',
	placed_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS order_lines (
	order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position INT NOT NULL,
	name TEXT NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL,
	quantity INT NOT NULL,
	PRIMARY KEY (order_id, position)
);`

const (
	insertOrderSQL = `INSERT INTO orders (id,customer_name,address,comments,total,message,link,placed_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	insertLineSQL  = `INSERT INTO order_lines (order_id,position,name,unit_price,quantity) VALUES ($1,$2,$3,$4,$5)`
	selectOrderSQL = `SELECT id,customer_name,address,comments,total,message,link,placed_at FROM orders`
	selectLinesSQL = `SELECT name,unit_price,quantity FROM order_lines WHERE order_id=$1 ORDER BY position`
)

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the orders tables when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Create inserts the order and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, o order.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertOrderSQL,
		o.ID, o.CustomerName, o.Address, o.Comments, o.Total, o.Message, o.Link, o.PlacedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for i, l := range o.Lines {
		if _, err = tx.ExecContext(ctx, insertLineSQL, o.ID, i, l.Name, l.UnitPrice, l.Quantity); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return tx.Commit()
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrderSQL+" WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	if o.Lines, err = r.lines(ctx, o.ID); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

// List fetches all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrderSQL+" ORDER BY placed_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Lines, err = r.lines(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) lines(ctx context.Context, id string) ([]order.Line, error) {
	rows, err := r.db.QueryContext(ctx, selectLinesSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []order.Line
	for rows.Next() {
		var l order.Line
		if err := rows.Scan(&l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (order.Order, error) {
	var o order.Order
	err := s.Scan(&o.ID, &o.CustomerName, &o.Address, &o.Comments, &o.Total, &o.Message, &o.Link, &o.PlacedAt)
	return o, err
}
