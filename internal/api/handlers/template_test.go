package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/models"
	"gorm.io/gorm"
)

func templateRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTemplateHandler(db)
	router := gin.New()
	router.GET("/templates", h.ListTemplates)
	router.POST("/templates", h.CreateTemplate)
	router.PUT("/templates/:id", h.UpdateTemplate)
	router.DELETE("/templates/:id", h.DeleteTemplate)
	return router
}

func TestCreateTemplateWithItems(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	w := performJSON(router, "POST", "/templates", `{
		"name": "Cooking Basics",
		"items": [
			{"name": "Propane Stove"},
			{"name": "Fuel Canister", "quantity": 4}
		]
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var template models.Template
	decodeJSON(t, w, &template)
	if len(template.Items) != 2 {
		t.Fatalf("item count = %d, want 2", len(template.Items))
	}
	if template.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", template.Items[0].Quantity)
	}
	if template.Items[1].Quantity != 4 {
		t.Errorf("quantity = %d, want 4", template.Items[1].Quantity)
	}
}

func TestCreateTemplateNoItems(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	w := performJSON(router, "POST", "/templates", `{"name": "Blank"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var template models.Template
	decodeJSON(t, w, &template)
	if template.Items == nil || len(template.Items) != 0 {
		t.Errorf("items = %v, want []", template.Items)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"items": []}`},
		{"entry missing name", `{"name": "Bad", "items": [{"quantity": 1}]}`},
		{"entry zero quantity", `{"name": "Bad", "items": [{"name": "x", "quantity": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, "POST", "/templates", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
			}
		})
	}

	var count int64
	db.Model(&models.Template{}).Count(&count)
	if count != 0 {
		t.Errorf("template count = %d, want 0", count)
	}
}

func TestUpdateTemplateReplacesEntries(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	template := models.Template{Name: "Cooking Basics"}
	mustCreate(t, db, &template)
	mustCreate(t, db, &models.TemplateItem{TemplateID: template.ID, Name: "Old Entry", Quantity: 1})
	mustCreate(t, db, &models.TemplateItem{TemplateID: template.ID, Name: "Another Old", Quantity: 2})

	w := performJSON(router, "PUT", fmt.Sprintf("/templates/%d", template.ID), `{
		"name": "Cooking Advanced",
		"items": [{"name": "Dutch Oven", "quantity": 2}]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var updated models.Template
	decodeJSON(t, w, &updated)
	if updated.Name != "Cooking Advanced" {
		t.Errorf("name = %q", updated.Name)
	}
	if len(updated.Items) != 1 || updated.Items[0].Name != "Dutch Oven" {
		t.Errorf("items = %+v", updated.Items)
	}

	var count int64
	db.Model(&models.TemplateItem{}).Where("template_id = ?", template.ID).Count(&count)
	if count != 1 {
		t.Errorf("stored entries = %d, want 1", count)
	}
}

func TestUpdateTemplateClearToEmpty(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	template := models.Template{Name: "Cooking Basics"}
	mustCreate(t, db, &template)
	mustCreate(t, db, &models.TemplateItem{TemplateID: template.ID, Name: "Entry", Quantity: 1})

	w := performJSON(router, "PUT", fmt.Sprintf("/templates/%d", template.ID),
		`{"name": "Cooking Basics", "items": []}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var updated models.Template
	decodeJSON(t, w, &updated)
	if updated.Items == nil || len(updated.Items) != 0 {
		t.Errorf("items = %v, want []", updated.Items)
	}
}

func TestUpdateTemplateNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	w := performJSON(router, "PUT", "/templates/88", `{"name": "Ghost"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteTemplateRemovesEntries(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	template := models.Template{Name: "Cooking Basics"}
	mustCreate(t, db, &template)
	mustCreate(t, db, &models.TemplateItem{TemplateID: template.ID, Name: "Entry", Quantity: 1})

	w := performJSON(router, "DELETE", fmt.Sprintf("/templates/%d", template.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.TemplateItem{}).Count(&count)
	if count != 0 {
		t.Errorf("entry count = %d, want 0", count)
	}

	w = performJSON(router, "DELETE", fmt.Sprintf("/templates/%d", template.ID), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestListTemplates(t *testing.T) {
	db := setupTestDB(t)
	router := templateRouter(db)

	template := models.Template{Name: "Cooking Basics"}
	mustCreate(t, db, &template)
	empty := models.Template{Name: "Blank"}
	mustCreate(t, db, &empty)
	mustCreate(t, db, &models.TemplateItem{TemplateID: template.ID, Name: "Stove", Quantity: 1})

	w := performJSON(router, "GET", "/templates", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var templates []models.Template
	decodeJSON(t, w, &templates)
	if len(templates) != 2 {
		t.Fatalf("template count = %d, want 2", len(templates))
	}
	if len(templates[0].Items) != 1 {
		t.Errorf("first template items = %+v", templates[0].Items)
	}
	if templates[1].Items == nil || len(templates[1].Items) != 0 {
		t.Errorf("empty template items = %v, want []", templates[1].Items)
	}
}
