package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/models"
	"github.com/troophq/packtrack/internal/validate"
	"gorm.io/gorm"
)

// BoxHandler handles storage box CRUD and template application
type BoxHandler struct {
	db *gorm.DB
}

// NewBoxHandler creates a new box handler
func NewBoxHandler(db *gorm.DB) *BoxHandler {
	return &BoxHandler{db: db}
}

// BoxRequest is the body for creating or fully replacing a box. Omitted
// optional fields fall back to server defaults.
type BoxRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	Color          *string `json:"color" binding:"omitempty,hexcolor"`
	Weight         *int    `json:"weight" binding:"omitempty,gte=0,lte=10000"`
	Notes          *string `json:"notes" binding:"omitempty,max=5000"`
	LastInspection *string `json:"lastInspection"`
	InTrailer      *bool   `json:"inTrailer"`
}

// apply copies the request onto a box, filling defaults for omitted fields.
// Returns false after writing a 400 if the inspection date does not parse.
func (r *BoxRequest) apply(c *gin.Context, box *models.Box) bool {
	box.Name = r.Name

	box.Color = models.DefaultBoxColor
	if r.Color != nil {
		box.Color = *r.Color
	}

	box.Weight = 0
	if r.Weight != nil {
		box.Weight = *r.Weight
	}

	box.Notes = ""
	if r.Notes != nil {
		box.Notes = *r.Notes
	}

	box.LastInspection = nil
	if r.LastInspection != nil && *r.LastInspection != "" {
		t, err := parseDate(*r.LastInspection)
		if err != nil {
			c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: []validate.FieldError{
				{Field: "lastInspection", Message: "must be an ISO 8601 date"},
			}})
			return false
		}
		box.LastInspection = &t
	}

	box.InTrailer = false
	if r.InTrailer != nil {
		box.InTrailer = *r.InTrailer
	}

	return true
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("items.id ASC")
}

// ListBoxes godoc
// @Summary List all boxes with their items
// @Tags boxes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Box
// @Router /boxes [get]
func (h *BoxHandler) ListBoxes(c *gin.Context) {
	var boxes []models.Box
	if err := h.db.Preload("Items", preloadItems).Order("id ASC").Find(&boxes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch boxes"})
		return
	}

	// Keep items an empty array, not null, for empty boxes
	for i := range boxes {
		if boxes[i].Items == nil {
			boxes[i].Items = []models.Item{}
		}
	}

	c.JSON(http.StatusOK, boxes)
}

// GetBox godoc
// @Summary Get a single box by ID
// @Tags boxes
// @Security BearerAuth
// @Param id path int true "Box ID"
// @Produce json
// @Success 200 {object} models.Box
// @Failure 404 {object} ErrorResponse
// @Router /boxes/{id} [get]
func (h *BoxHandler) GetBox(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var box models.Box
	if err := h.db.Preload("Items", preloadItems).First(&box, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Box not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch box"})
		return
	}

	if box.Items == nil {
		box.Items = []models.Item{}
	}

	c.JSON(http.StatusOK, box)
}

// CreateBox godoc
// @Summary Create a new box
// @Tags boxes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param box body BoxRequest true "Box fields"
// @Success 201 {object} models.Box
// @Failure 400 {object} ValidationErrorResponse
// @Router /boxes [post]
func (h *BoxHandler) CreateBox(c *gin.Context) {
	var req BoxRequest
	if !bindJSON(c, &req) {
		return
	}

	var box models.Box
	if !req.apply(c, &box) {
		return
	}

	if err := h.db.Create(&box).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create box"})
		return
	}

	box.Items = []models.Item{}
	c.JSON(http.StatusCreated, box)
}

// UpdateBox godoc
// @Summary Replace a box's fields
// @Tags boxes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Box ID"
// @Param box body BoxRequest true "Box fields"
// @Success 200 {object} models.Box
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /boxes/{id} [put]
func (h *BoxHandler) UpdateBox(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req BoxRequest
	if !bindJSON(c, &req) {
		return
	}

	var box models.Box
	if err := h.db.First(&box, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Box not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch box"})
		return
	}

	if !req.apply(c, &box) {
		return
	}

	// Full replace, including clearing fields omitted from the request
	if err := h.db.Model(&box).Select("name", "color", "weight", "notes", "last_inspection", "in_trailer").
		Updates(&box).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update box"})
		return
	}

	if err := h.db.Preload("Items", preloadItems).First(&box, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch box"})
		return
	}
	if box.Items == nil {
		box.Items = []models.Item{}
	}

	c.JSON(http.StatusOK, box)
}

// DeleteBox godoc
// @Summary Delete a box
// @Description Removes the box, its items, and its membership in every profile
// @Tags boxes
// @Security BearerAuth
// @Param id path int true "Box ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /boxes/{id} [delete]
func (h *BoxHandler) DeleteBox(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Box{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("box_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM profile_boxes WHERE box_id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Box not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete box"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Box deleted successfully"})
}

type ApplyTemplateRequest struct {
	TemplateID uint `json:"templateId" binding:"required,gt=0"`
}

// ApplyTemplate godoc
// @Summary Apply a template to a box
// @Description Appends the template's items to the box, preserving existing items
// @Tags boxes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Box ID"
// @Param template body ApplyTemplateRequest true "Template to apply"
// @Success 200 {object} models.Box
// @Failure 404 {object} ErrorResponse
// @Router /boxes/{id}/apply-template [post]
func (h *BoxHandler) ApplyTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ApplyTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	var box models.Box
	if err := h.db.First(&box, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Box not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch box"})
		return
	}

	var template models.Template
	if err := h.db.Preload("Items").First(&template, req.TemplateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch template"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range template.Items {
			item := models.Item{
				BoxID:    box.ID,
				Name:     entry.Name,
				Quantity: entry.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply template"})
		return
	}

	if err := h.db.Preload("Items", preloadItems).First(&box, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch box"})
		return
	}
	if box.Items == nil {
		box.Items = []models.Item{}
	}

	c.JSON(http.StatusOK, box)
}
