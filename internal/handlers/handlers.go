package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stocklease/internal/activity"
	"stocklease/internal/database"
	"stocklease/internal/inventory"
	"stocklease/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ActivityLister reads the audit trail.
type ActivityLister interface {
	List(ctx context.Context, f database.ActivityFilter) ([]models.ActivityLog, error)
}

type Handlers struct {
	db        *gorm.DB
	inventory *inventory.Service
	activity  *activity.Recorder
	trail     ActivityLister
}

func New(db *gorm.DB, inv *inventory.Service, rec *activity.Recorder, trail ActivityLister) *Handlers {
	return &Handlers{
		db:        db,
		inventory: inv,
		activity:  rec,
		trail:     trail,
	}
}

// record writes an activity entry for the current request. Failures never reach the client.
func (h *Handlers) record(c *gin.Context, action, description string) {
	h.activity.Record(c.Request.Context(), activity.FromGin(c), action, description)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// fail maps domain and storage errors to a status code.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, inventory.ErrInvalidItem),
		errors.Is(err, inventory.ErrInvalidLease),
		errors.Is(err, inventory.ErrInvalidPeriod):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrStockInUse),
		errors.Is(err, inventory.ErrItemLeased),
		errors.Is(err, inventory.ErrAlreadyReturned):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		status, msg = http.StatusConflict, "already exists"
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": msg})
}
