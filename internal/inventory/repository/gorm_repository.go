package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// GormRepository persists items and the stock ledger in PostgreSQL. It
// implements domain.ItemRepository, domain.MovementRepository and
// domain.StockStore.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// AutoMigrate creates or updates the items and movements tables
func (r *GormRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Item{}, &domain.Movement{})
}

// ApplyChange runs fn against the item under a row lock and persists the
// mutated item together with the returned ledger entry in one transaction.
// Concurrent commands against the same item serialize on the lock, so no
// two of them can observe the same previous quantity and both succeed.
func (r *GormRepository) ApplyChange(ctx context.Context, itemID uint, fn domain.ChangeFunc) (*domain.Item, *domain.Movement, error) {
	var (
		item domain.Item
		mv   *domain.Movement
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", domain.ErrItemNotFound, itemID)
			}
			return err
		}

		var err error
		mv, err = fn(&item)
		if err != nil {
			return err
		}

		mv.ItemID = item.ID
		if mv.QuantityAfter != item.Quantity || !mv.Consistent() {
			return fmt.Errorf("ledger entry disagrees with item %q: before=%d after=%d quantity=%d on-hand=%d",
				item.SKU, mv.QuantityBefore, mv.QuantityAfter, mv.Quantity, item.Quantity)
		}

		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		if err := tx.Create(mv).Error; err != nil {
			return fmt.Errorf("failed to append movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &item, mv, nil
}

func (r *GormRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrItemNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sku %s", domain.ErrItemNotFound, sku)
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Order("name").
		Limit(limit).Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *GormRepository) Update(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Deactivate soft-deactivates the item; rows are never deleted
func (r *GormRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrItemNotFound, id)
	}
	return nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).Count(&count).Error
	return count, err
}

func (r *GormRepository) LowStock(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("quantity <= minimum_stock").
		Order("quantity").
		Find(&items).Error
	return items, err
}

func (r *GormRepository) OutOfStock(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("quantity = 0").
		Order("name").
		Find(&items).Error
	return items, err
}

func (r *GormRepository) ExpiringSoon(ctx context.Context, days int) ([]domain.Item, error) {
	cutoff := time.Now().AddDate(0, 0, days)

	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("expiry_date IS NOT NULL").
		Where("expiry_date <= ?", cutoff).
		Order("expiry_date").
		Find(&items).Error
	return items, err
}

func (r *GormRepository) ByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("category = ?", category).
		Order("name").
		Find(&items).Error
	return items, err
}

func (r *GormRepository) Search(ctx context.Context, query string) ([]domain.Item, error) {
	pattern := "%" + query + "%"
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ? OR sku ILIKE ?", pattern, pattern, pattern).
		Order("name").
		Find(&items).Error
	return items, err
}

// GormMovementRepository is the read-only view over the stock ledger
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new movement repository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID uint, limit, offset int) ([]domain.Movement, error) {
	var movements []domain.Movement
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&movements).Error
	return movements, err
}

func (r *GormMovementRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Movement, error) {
	var movements []domain.Movement
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&movements).Error
	return movements, err
}

func (r *GormMovementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Movement{}).Count(&count).Error
	return count, err
}
