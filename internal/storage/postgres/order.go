package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/wire"
)

const (
	createOrderSQL = `INSERT INTO orders (id, idempotency_key, items, customer_name, customer_email,
			customer_phone, address, city, total_amount, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	decrementStockSQL = `UPDATE products SET stock = stock - $2 WHERE id = $1`

	orderSelect = `SELECT id, COALESCE(idempotency_key, ''), items, customer_name, customer_email,
		customer_phone, address, city, total_amount, payment_method, status, created_at
		FROM orders`

	findOrderByKeySQL = orderSelect + ` WHERE idempotency_key = $1`

	listOrdersSQL = orderSelect + ` ORDER BY created_at DESC, id`

	listIdempotencyKeysSQL = `SELECT idempotency_key FROM orders WHERE idempotency_key IS NOT NULL`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and decrements stock of every ordered product
// in the same transaction. The order items are stored in the JSONB column.
// Stock may go negative; it is advisory only.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, createOrderSQL,
			o.ID, nullString(o.IdempotencyKey), wire.EncodeLineItems(o.Items),
			o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address, o.Customer.City,
			o.TotalAmount, string(o.PaymentMethod), string(o.Status), o.CreatedAt,
		)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, li := range o.Items {
			batch.Queue(decrementStockSQL, li.ProductID, li.Quantity)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		if isUniqueViolation(err) {
			return order.ErrDuplicateKey
		}
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, findOrderByKeySQL, key)
	if err != nil {
		return nil, fmt.Errorf("finding order by key: %w", err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("finding order by key: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListIdempotencyKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listIdempotencyKeysSQL)
	if err != nil {
		return nil, fmt.Errorf("listing idempotency keys: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o              order.Order
		items          []byte
		method, status string
		createdAt      time.Time
	)
	err := row.Scan(
		&o.ID, &o.IdempotencyKey, &items,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address, &o.Customer.City,
		&o.TotalAmount, &method, &status, &createdAt,
	)
	if err != nil {
		return o, err
	}
	if o.Items, err = wire.DecodeLineItems(items); err != nil {
		return o, fmt.Errorf("order %q items: %w", o.ID, err)
	}
	o.PaymentMethod = order.PaymentMethod(method)
	o.Status = order.Status(status)
	o.CreatedAt = createdAt.UTC()
	return o, nil
}
