package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

func newProductRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestProductRepositoryFindBySKU(t *testing.T) {
	db, mock, cleanup := newProductRepoMock(t)
	defer cleanup()

	repo := NewProductRepository(db)
	rows := sqlmock.NewRows([]string{"id", "sku", "name", "price", "virtual", "hidden", "created_at", "updated_at"}).
		AddRow("prod-1", "mb-42", "Deep Tissue Massage", 120.0, true, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, sku, name, price").
		WithArgs("mb-42").
		WillReturnRows(rows)

	product, err := repo.FindBySKU(context.Background(), "mb-42")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	assert.Equal(t, 120.0, product.Price)
	assert.True(t, product.Virtual)
	assert.True(t, product.Hidden)
}

func TestProductRepositoryFindBySKUNotFound(t *testing.T) {
	db, mock, cleanup := newProductRepoMock(t)
	defer cleanup()

	repo := NewProductRepository(db)
	mock.ExpectQuery("SELECT id, sku, name, price").
		WithArgs("mb-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindBySKU(context.Background(), "mb-404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProductRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newProductRepoMock(t)
	defer cleanup()

	repo := NewProductRepository(db)
	mock.ExpectExec("INSERT INTO products").
		WithArgs("prod-1", "mb-42", "Deep Tissue Massage", 120.0, true, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	product := &models.Product{
		ID:      "prod-1",
		SKU:     "mb-42",
		Name:    "Deep Tissue Massage",
		Price:   120.0,
		Virtual: true,
		Hidden:  true,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	assert.False(t, product.CreatedAt.IsZero())
}

func TestProductRepositoryAddCartItem(t *testing.T) {
	db, mock, cleanup := newProductRepoMock(t)
	defer cleanup()

	repo := NewProductRepository(db)
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs("item-1", "cart-abc", "prod-1", "42", "Maria Lopez", "2026-09-01", "10:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.CartItem{
		ID:        "item-1",
		CartKey:   "cart-abc",
		ProductID: "prod-1",
		ServiceID: "42",
		Therapist: "Maria Lopez",
		ApptDate:  "2026-09-01",
		ApptTime:  "10:00",
	}
	require.NoError(t, repo.AddCartItem(context.Background(), item))
}

func TestProductRepositoryAttachOrderMetadata(t *testing.T) {
	db, mock, cleanup := newProductRepoMock(t)
	defer cleanup()

	repo := NewProductRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_item_meta").
		WithArgs("item-1", "appointment_date", "2026-09-01", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.AttachOrderMetadata(context.Background(), "item-1", map[string]string{
		"appointment_date": "2026-09-01",
	})
	require.NoError(t, err)
}
