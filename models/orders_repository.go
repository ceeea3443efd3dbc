package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	db *gorm.DB
}

type OrderFilters struct {
	Status OrderStatus
	Email  string
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

func (r *OrdersRepository) ListOrders(ctx context.Context, offset, limit int, filters OrderFilters) ([]Order, int64, error) {
	var orders []Order
	var total int64

	query := r.db.WithContext(ctx).Model(&Order{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Email != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", filters.Email)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrdersRepository) GetByReference(ctx context.Context, reference string) (*Order, error) {
	var order Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("reference = ?", reference).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order along its lifecycle. Cancelling puts physical
// stock back on the shelf.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, reference string, next OrderStatus) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			Where("reference = ?", reference).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return &TransitionError{From: order.Status, To: next}
		}

		if next == StatusCancelled {
			for _, item := range order.Items {
				if item.Kind != KindPhysical {
					continue
				}
				if err := tx.Model(&Product{}).Unscoped().
					Where("id = ?", item.ProductID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		order.Status = next
		return tx.Model(&order).Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
