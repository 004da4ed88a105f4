// Package inventory implements stock and lease bookkeeping on top of gorm.
//
// Availability changes and lease rows are always written in the same transaction, with the item
// row locked, so concurrent leases cannot oversell an item.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocklease/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidItem       = errors.New("invalid item")
	ErrInvalidLease      = errors.New("invalid lease")
	ErrInvalidPeriod     = errors.New("due date must be after start date")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrStockInUse        = errors.New("total quantity is below the quantity currently leased")
	ErrItemLeased        = errors.New("item has open leases")
	ErrAlreadyReturned   = errors.New("lease already returned")
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

type ItemInput struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	QuantityTotal int    `json:"quantity_total"`
	ReorderLevel  int    `json:"reorder_level"`
}

func (in *ItemInput) normalize() {
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
}

// Validate normalizes the input in place and checks it.
func (in *ItemInput) Validate() error {
	in.normalize()
	switch {
	case in.SKU == "":
		return fmt.Errorf("%w: sku is required", ErrInvalidItem)
	case len(in.SKU) > 64:
		return fmt.Errorf("%w: sku is longer than 64 characters", ErrInvalidItem)
	case len(in.Name) < 2:
		return fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidItem)
	case in.QuantityTotal < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	case in.ReorderLevel < 0:
		return fmt.Errorf("%w: reorder level must not be negative", ErrInvalidItem)
	}
	return nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*models.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := &models.Item{
		SKU:               in.SKU,
		Name:              in.Name,
		Category:          in.Category,
		Location:          in.Location,
		Description:       in.Description,
		QuantityTotal:     in.QuantityTotal,
		QuantityAvailable: in.QuantityTotal,
		ReorderLevel:      in.ReorderLevel,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// UpdateItem rewrites item metadata. A change of the total shifts availability by the same delta.
func (s *Service) UpdateItem(ctx context.Context, id uint, in ItemInput) (*models.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			return err
		}

		available := item.QuantityAvailable + (in.QuantityTotal - item.QuantityTotal)
		if available < 0 {
			return ErrStockInUse
		}

		item.SKU = in.SKU
		item.Name = in.Name
		item.Category = in.Category
		item.Location = in.Location
		item.Description = in.Description
		item.QuantityTotal = in.QuantityTotal
		item.QuantityAvailable = available
		item.ReorderLevel = in.ReorderLevel

		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem soft-deletes an item that has no open leases.
func (s *Service) DeleteItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Lease{}).
			Where("item_id = ? AND status IN ?", item.ID, []models.LeaseStatus{models.LeaseActive, models.LeaseOverdue}).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrItemLeased
		}

		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type LeaseInput struct {
	ItemID        uint      `json:"item_id"`
	LesseeName    string    `json:"lessee_name"`
	LesseeContact string    `json:"lessee_contact"`
	Quantity      int       `json:"quantity"`
	StartsAt      time.Time `json:"starts_at"`
	DueAt         time.Time `json:"due_at"`
	Notes         string    `json:"notes"`
}

// Validate normalizes the input in place and checks it. A zero start means "now".
func (in *LeaseInput) Validate(now time.Time) error {
	in.LesseeName = strings.TrimSpace(in.LesseeName)
	in.LesseeContact = strings.TrimSpace(in.LesseeContact)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.StartsAt.IsZero() {
		in.StartsAt = now
	}

	switch {
	case in.ItemID == 0:
		return fmt.Errorf("%w: item is required", ErrInvalidLease)
	case len(in.LesseeName) < 2:
		return fmt.Errorf("%w: lessee name must be at least 2 characters", ErrInvalidLease)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidLease)
	case in.DueAt.IsZero() || !in.DueAt.After(in.StartsAt):
		return ErrInvalidPeriod
	}
	return nil
}

// CreateLease reserves stock and records the lease for the acting user.
func (s *Service) CreateLease(ctx context.Context, actorID uint, in LeaseInput) (*models.Lease, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	lease := &models.Lease{
		ItemID:        in.ItemID,
		LesseeName:    in.LesseeName,
		LesseeContact: in.LesseeContact,
		Quantity:      in.Quantity,
		StartsAt:      in.StartsAt,
		DueAt:         in.DueAt,
		Status:        models.LeaseActive,
		Notes:         in.Notes,
		CreatedByID:   actorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, in.ItemID).Error; err != nil {
			return err
		}
		if item.QuantityAvailable < in.Quantity {
			return ErrInsufficientStock
		}

		if err := tx.Model(&item).
			Update("quantity_available", gorm.Expr("quantity_available - ?", in.Quantity)).Error; err != nil {
			return err
		}
		if err := tx.Create(lease).Error; err != nil {
			return err
		}
		lease.Item = item
		lease.Item.QuantityAvailable -= in.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// ReturnLease closes an open lease and gives its stock back.
func (s *Service) ReturnLease(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&lease, id).Error; err != nil {
			return err
		}
		if !lease.Status.Open() {
			return ErrAlreadyReturned
		}

		returnedAt := s.now()
		if err := tx.Model(&lease).Updates(map[string]any{
			"status":      models.LeaseReturned,
			"returned_at": returnedAt,
		}).Error; err != nil {
			return err
		}
		lease.Status = models.LeaseReturned
		lease.ReturnedAt = &returnedAt

		return tx.Model(&models.Item{}).
			Where("id = ?", lease.ItemID).
			Update("quantity_available", gorm.Expr("quantity_available + ?", lease.Quantity)).Error
	})
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

type LeaseFilter struct {
	Status models.LeaseStatus
	ItemID uint
}

func (s *Service) ListLeases(ctx context.Context, f LeaseFilter) ([]models.Lease, error) {
	q := s.db.WithContext(ctx).Preload("Item").Order("due_at asc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ItemID != 0 {
		q = q.Where("item_id = ?", f.ItemID)
	}

	var leases []models.Lease
	if err := q.Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

func (s *Service) ListItems(ctx context.Context, category string) ([]models.Item, error) {
	q := s.db.WithContext(ctx).Order("name asc")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).Preload("Leases", "status IN ?", []models.LeaseStatus{models.LeaseActive, models.LeaseOverdue}).
		First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// MarkOverdue flips active leases past their due date to overdue and returns how many changed.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Lease{}).
		Where("status = ? AND due_at < ?", models.LeaseActive, s.now()).
		Update("status", models.LeaseOverdue)
	return res.RowsAffected, res.Error
}

// LowStock returns items whose availability is at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Where("quantity_available <= reorder_level").
		Order("quantity_available asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Summary is the dashboard overview.
type Summary struct {
	Items         int64 `json:"items"`
	LowStockItems int64 `json:"low_stock_items"`
	ActiveLeases  int64 `json:"active_leases"`
	OverdueLeases int64 `json:"overdue_leases"`
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Item{}).Count(&sum.Items).Error; err != nil {
		return sum, err
	}
	if err := db.Model(&models.Item{}).Where("quantity_available <= reorder_level").Count(&sum.LowStockItems).Error; err != nil {
		return sum, err
	}
	if err := db.Model(&models.Lease{}).Where("status = ?", models.LeaseActive).Count(&sum.ActiveLeases).Error; err != nil {
		return sum, err
	}
	if err := db.Model(&models.Lease{}).Where("status = ?", models.LeaseOverdue).Count(&sum.OverdueLeases).Error; err != nil {
		return sum, err
	}
	return sum, nil
}
