package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/models"
	"gorm.io/gorm"
)

// ItemHandler handles items inside boxes
type ItemHandler struct {
	db *gorm.DB
}

// NewItemHandler creates a new item handler
func NewItemHandler(db *gorm.DB) *ItemHandler {
	return &ItemHandler{db: db}
}

// ItemRequest is the body for creating or fully replacing an item
type ItemRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	Quantity         *int   `json:"quantity" binding:"omitempty,gte=1,lte=10000"`
	NeedsReplacement *bool  `json:"needsReplacement"`
}

func (r *ItemRequest) apply(item *models.Item) {
	item.Name = r.Name

	item.Quantity = 1
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}

	item.NeedsReplacement = false
	if r.NeedsReplacement != nil {
		item.NeedsReplacement = *r.NeedsReplacement
	}
}

// CreateItem godoc
// @Summary Add an item to a box
// @Tags items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Box ID"
// @Param item body ItemRequest true "Item fields"
// @Success 201 {object} models.Item
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /boxes/{id}/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	boxID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	// Every item must reference an existing box
	var box models.Box
	if err := h.db.First(&box, boxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Box not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch box"})
		return
	}

	item := models.Item{BoxID: boxID}
	req.apply(&item)

	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Replace an item's fields
// @Tags items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body ItemRequest true "Item fields"
// @Success 200 {object} models.Item
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	var item models.Item
	if err := h.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch item"})
		return
	}

	req.apply(&item)

	if err := h.db.Model(&item).Select("name", "quantity", "needs_replacement").
		Updates(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete an item
// @Tags items
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := h.db.Delete(&models.Item{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not found"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}
