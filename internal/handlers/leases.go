package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"stocklease/internal/inventory"
	"stocklease/internal/middleware"
	"stocklease/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListLeases(c *gin.Context) {
	var f inventory.LeaseFilter

	if s := c.Query("status"); s != "" {
		status := models.LeaseStatus(s)
		switch status {
		case models.LeaseActive, models.LeaseOverdue, models.LeaseReturned:
			f.Status = status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
	}
	if s := c.Query("item_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
			return
		}
		f.ItemID = uint(id)
	}

	leases, err := h.inventory.ListLeases(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "leases/index", gin.H{
		"leases": leases,
		"filter": gin.H{"status": f.Status, "item_id": f.ItemID},
	})
}

func (h *Handlers) CreateLease(c *gin.Context) {
	var in inventory.LeaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	lease, err := h.inventory.CreateLease(c.Request.Context(), user.ID, in)
	if err != nil {
		fail(c, err)
		return
	}

	h.record(c, "create_lease", fmt.Sprintf("Leased %d x %s to %s until %s",
		lease.Quantity, lease.Item.SKU, lease.LesseeName, lease.DueAt.Format("2006-01-02")))

	c.JSON(http.StatusCreated, gin.H{"lease": lease})
}

func (h *Handlers) ReturnLease(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lease, err := h.inventory.ReturnLease(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	h.record(c, "return_lease", fmt.Sprintf("Returned lease #%d (%d units of item #%d)", lease.ID, lease.Quantity, lease.ItemID))

	c.JSON(http.StatusOK, gin.H{"lease": lease})
}
