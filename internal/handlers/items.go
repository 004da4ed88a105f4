package handlers

import (
	"fmt"
	"net/http"

	"stocklease/internal/inventory"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListItems(c *gin.Context) {
	category := c.Query("category")

	items, err := h.inventory.ListItems(c.Request.Context(), category)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "items/index", gin.H{
		"items":    items,
		"category": category,
	})
}

func (h *Handlers) ShowItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "items/show", gin.H{"item": item})
}

func (h *Handlers) CreateItem(c *gin.Context) {
	var in inventory.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	item, err := h.inventory.CreateItem(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	h.record(c, "create_item", fmt.Sprintf("Created item %s (%s), quantity %d", item.Name, item.SKU, item.QuantityTotal))

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handlers) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in inventory.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	item, err := h.inventory.UpdateItem(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}

	h.record(c, "update_item", fmt.Sprintf("Updated item %s (%s)", item.Name, item.SKU))

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handlers) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventory.DeleteItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	h.record(c, "delete_item", fmt.Sprintf("Deleted item %s (%s)", item.Name, item.SKU))

	c.Status(http.StatusNoContent)
}
