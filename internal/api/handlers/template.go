package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/models"
	"gorm.io/gorm"
)

// TemplateHandler handles reusable item templates
type TemplateHandler struct {
	db *gorm.DB
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{db: db}
}

// TemplateRequest is the body for creating or fully replacing a template.
// Items, when present, replaces the full entry list.
type TemplateRequest struct {
	Name  string                `json:"name" binding:"required,max=255"`
	Items []TemplateItemRequest `json:"items" binding:"omitempty,dive"`
}

type TemplateItemRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Quantity *int   `json:"quantity" binding:"omitempty,gte=1,lte=10000"`
}

func (r *TemplateRequest) entries(templateID uint) []models.TemplateItem {
	entries := make([]models.TemplateItem, len(r.Items))
	for i, item := range r.Items {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		entries[i] = models.TemplateItem{
			TemplateID: templateID,
			Name:       item.Name,
			Quantity:   quantity,
		}
	}
	return entries
}

// replaceEntries rewrites the template's child rows to exactly the given list.
func replaceEntries(tx *gorm.DB, templateID uint, entries []models.TemplateItem) error {
	if err := tx.Where("template_id = ?", templateID).Delete(&models.TemplateItem{}).Error; err != nil {
		return err
	}
	for i := range entries {
		if err := tx.Create(&entries[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListTemplates godoc
// @Summary List all templates with their items
// @Tags templates
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Template
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var templates []models.Template
	err := h.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_items.id ASC")
	}).Order("id ASC").Find(&templates).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch templates"})
		return
	}

	for i := range templates {
		if templates[i].Items == nil {
			templates[i].Items = []models.TemplateItem{}
		}
	}

	c.JSON(http.StatusOK, templates)
}

// CreateTemplate godoc
// @Summary Create a new template
// @Tags templates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param template body TemplateRequest true "Template fields"
// @Success 201 {object} models.Template
// @Failure 400 {object} ValidationErrorResponse
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	template := models.Template{Name: req.Name}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
		return replaceEntries(tx, template.ID, req.entries(template.ID))
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create template"})
		return
	}

	h.respondWithTemplate(c, http.StatusCreated, template.ID)
}

// UpdateTemplate godoc
// @Summary Replace a template's name and item list
// @Tags templates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param template body TemplateRequest true "Template fields"
// @Success 200 {object} models.Template
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := tx.First(&template, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&template).Update("name", req.Name).Error; err != nil {
			return err
		}
		return replaceEntries(tx, id, req.entries(id))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update template"})
		return
	}

	h.respondWithTemplate(c, http.StatusOK, id)
}

// DeleteTemplate godoc
// @Summary Delete a template
// @Tags templates
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Template{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("template_id = ?", id).Delete(&models.TemplateItem{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete template"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Template deleted successfully"})
}

func (h *TemplateHandler) respondWithTemplate(c *gin.Context, status int, id uint) {
	var template models.Template
	err := h.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_items.id ASC")
	}).First(&template, id).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch template"})
		return
	}
	if template.Items == nil {
		template.Items = []models.TemplateItem{}
	}
	c.JSON(status, template)
}
