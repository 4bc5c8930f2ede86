package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

// ProductRepository persists shop products and cart items for the booking
// side channel. Products mirroring upstream services are created on demand
// as virtual, hidden entries keyed by SKU.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs the repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindBySKU fetches a product by its SKU.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	const query = `SELECT id, sku, name, price, virtual, hidden, created_at, updated_at
FROM products WHERE sku = $1`
	var product models.Product
	if err := r.db.GetContext(ctx, &product, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find product by sku: %w", err)
	}
	return &product, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	const query = `INSERT INTO products (id, sku, name, price, virtual, hidden, created_at, updated_at)
VALUES (:id, :sku, :name, :price, :virtual, :hidden, :created_at, :updated_at)`
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdatePrice refreshes the stored price so a stale product never undercuts
// the upstream catalog at checkout.
func (r *ProductRepository) UpdatePrice(ctx context.Context, id string, price float64) error {
	const query = `UPDATE products SET price = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, price, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update product price: %w", err)
	}
	return nil
}

// AddCartItem appends a confirmed booking to a cart.
func (r *ProductRepository) AddCartItem(ctx context.Context, item *models.CartItem) error {
	const query = `INSERT INTO cart_items (id, cart_key, product_id, service_id, therapist, appt_date, appt_time, created_at)
VALUES (:id, :cart_key, :product_id, :service_id, :therapist, :appt_date, :appt_time, :created_at)`
	item.CreatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// ListCartItems returns the items in a cart, newest first.
func (r *ProductRepository) ListCartItems(ctx context.Context, cartKey string) ([]models.CartItem, error) {
	const query = `SELECT id, cart_key, product_id, service_id, therapist, appt_date, appt_time, created_at
FROM cart_items WHERE cart_key = $1 ORDER BY created_at DESC`
	var items []models.CartItem
	if err := r.db.SelectContext(ctx, &items, query, cartKey); err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

// AttachOrderMetadata copies appointment details onto the order line so they
// survive past cart expiry. Runs from the background queue after checkout.
func (r *ProductRepository) AttachOrderMetadata(ctx context.Context, cartItemID string, meta map[string]string) error {
	if len(meta) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order metadata tx: %w", err)
	}
	const query = `INSERT INTO order_item_meta (cart_item_id, meta_key, meta_value, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_item_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value`
	now := time.Now().UTC()
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, query, cartItemID, key, value, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("attach order metadata: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order metadata tx: %w", err)
	}
	return nil
}
