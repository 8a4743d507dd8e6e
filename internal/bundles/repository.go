package bundles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListBundles(ctx context.Context) ([]Bundle, error)
	GetBundleByID(ctx context.Context, id uuid.UUID) (*Bundle, error)
	CreateBundle(ctx context.Context, bundle *Bundle) error

	CreateOrder(ctx context.Context, order *BundleOrder) error
	GetOrderByReference(ctx context.Context, reference string) (*BundleOrder, error)
	ListOrdersByCustomerEmail(ctx context.Context, email string) ([]BundleOrder, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status Status) error
	UpdatePaymentProof(ctx context.Context, orderID uuid.UUID, proofRef string) error

	// MarkVerified reports false when a concurrent verification already
	// consumed the order.
	MarkVerified(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBundles(ctx context.Context) ([]Bundle, error) {
	var bundles []Bundle
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price ASC").
		Find(&bundles).Error
	return bundles, err
}

func (r *repository) GetBundleByID(ctx context.Context, id uuid.UUID) (*Bundle, error) {
	var bundle Bundle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bundle).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *repository) CreateBundle(ctx context.Context, bundle *Bundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

func (r *repository) CreateOrder(ctx context.Context, order *BundleOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) GetOrderByReference(ctx context.Context, reference string) (*BundleOrder, error) {
	var order BundleOrder
	err := r.db.WithContext(ctx).Where("order_reference = ?", reference).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrdersByCustomerEmail(ctx context.Context, email string) ([]BundleOrder, error) {
	var orders []BundleOrder
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).
		Model(&BundleOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) UpdatePaymentProof(ctx context.Context, orderID uuid.UUID, proofRef string) error {
	return r.db.WithContext(ctx).
		Model(&BundleOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_proof": proofRef,
			"updated_at":    time.Now(),
		}).Error
}

// MarkVerified uses the same conditional UPDATE as ticket verification so
// only one scan of an order can succeed.
func (r *repository) MarkVerified(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&BundleOrder{}).
		Where("id = ?", orderID).
		Where("is_verified = ?", false).
		Where("status = ?", StatusConfirmed).
		Updates(map[string]interface{}{
			"is_verified": true,
			"verified_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark order verified: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
