package scheduler

import (
	"context"

	"stocklease/internal/models"
	"stocklease/internal/telemetry"

	"github.com/rs/zerolog/log"
)

// LeaseStore is the part of the inventory service the jobs use.
type LeaseStore interface {
	MarkOverdue(ctx context.Context) (int64, error)
	LowStock(ctx context.Context) ([]models.Item, error)
}

// MarkOverdueLeases flips active leases past their due date to overdue.
type MarkOverdueLeases struct {
	Store LeaseStore
}

func (MarkOverdueLeases) Name() string { return "leases:mark-overdue" }

func (j MarkOverdueLeases) Run(ctx context.Context) error {
	n, err := j.Store.MarkOverdue(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		telemetry.OverdueLeasesMarked.Add(float64(n))
		log.Info().Int64("count", n).Msg("leases marked overdue")
	}
	return nil
}

// LowStockReport logs items at or below their reorder level and exports the count.
type LowStockReport struct {
	Store LeaseStore
}

func (LowStockReport) Name() string { return "inventory:low-stock" }

func (j LowStockReport) Run(ctx context.Context) error {
	items, err := j.Store.LowStock(ctx)
	if err != nil {
		return err
	}

	telemetry.LowStockItems.Set(float64(len(items)))
	for _, item := range items {
		log.Warn().
			Uint("item_id", item.ID).
			Str("sku", item.SKU).
			Int("available", item.QuantityAvailable).
			Int("reorder_level", item.ReorderLevel).
			Msg("item at or below reorder level")
	}
	return nil
}
