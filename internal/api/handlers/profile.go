package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/troophq/packtrack/internal/models"
	"gorm.io/gorm"
)

// ProfileHandler handles campout packing profiles
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// ProfileRequest is the body for creating or fully replacing a profile.
// RequiredBoxes, when present, replaces the full membership set.
type ProfileRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	RequiredBoxes []uint `json:"requiredBoxes" binding:"omitempty,dive,gt=0"`
}

// ProfileResponse is the public shape of a profile
type ProfileResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	RequiredBoxes []uint `json:"requiredBoxes"`
}

type profileBoxRow struct {
	ProfileID uint
	BoxID     uint
}

// ListProfiles godoc
// @Summary List all profiles with their required box ids
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ProfileResponse
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var profiles []models.Profile
	if err := h.db.Order("id ASC").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch profiles"})
		return
	}

	// One join-table query for all profiles instead of one per row
	var rows []profileBoxRow
	if err := h.db.Table("profile_boxes").Order("box_id ASC").Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch profiles"})
		return
	}

	membership := make(map[uint][]uint, len(profiles))
	for _, row := range rows {
		membership[row.ProfileID] = append(membership[row.ProfileID], row.BoxID)
	}

	response := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		boxes := membership[p.ID]
		if boxes == nil {
			boxes = []uint{}
		}
		response[i] = ProfileResponse{ID: p.ID, Name: p.Name, RequiredBoxes: boxes}
	}

	c.JSON(http.StatusOK, response)
}

// requiredBoxes loads the current membership set for one profile.
func (h *ProfileHandler) requiredBoxes(profileID uint) ([]uint, error) {
	var ids []uint
	err := h.db.Table("profile_boxes").
		Where("profile_id = ?", profileID).
		Order("box_id ASC").
		Pluck("box_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// dedupeBoxIDs drops repeated ids while keeping first-occurrence order.
// Membership is a set, so a request listing a box twice means it once.
func dedupeBoxIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// verifyBoxesExist confirms every referenced box id resolves to a real box.
// Expects ids to be deduplicated already.
func verifyBoxesExist(tx *gorm.DB, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	var count int64
	if err := tx.Model(&models.Box{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

// replaceMembership rewrites the profile's join rows to exactly the given set.
func replaceMembership(tx *gorm.DB, profileID uint, boxIDs []uint) error {
	if err := tx.Exec("DELETE FROM profile_boxes WHERE profile_id = ?", profileID).Error; err != nil {
		return err
	}
	for _, boxID := range boxIDs {
		if err := tx.Exec("INSERT INTO profile_boxes (profile_id, box_id) VALUES (?, ?)", profileID, boxID).Error; err != nil {
			return err
		}
	}
	return nil
}

var errUnknownBox = errors.New("unknown box id")

// CreateProfile godoc
// @Summary Create a new profile
// @Tags profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param profile body ProfileRequest true "Profile fields"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	boxIDs := dedupeBoxIDs(req.RequiredBoxes)

	profile := models.Profile{Name: req.Name}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		ok, err := verifyBoxesExist(tx, boxIDs)
		if err != nil {
			return err
		}
		if !ok {
			return errUnknownBox
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return replaceMembership(tx, profile.ID, boxIDs)
	})
	if err != nil {
		if errors.Is(err, errUnknownBox) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "One or more box ids do not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, ProfileResponse{ID: profile.ID, Name: profile.Name, RequiredBoxes: boxIDs})
}

// UpdateProfile godoc
// @Summary Replace a profile's name and required box set
// @Tags profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param profile body ProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	boxIDs := dedupeBoxIDs(req.RequiredBoxes)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.First(&profile, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&profile).Update("name", req.Name).Error; err != nil {
			return err
		}
		ok, err := verifyBoxesExist(tx, boxIDs)
		if err != nil {
			return err
		}
		if !ok {
			return errUnknownBox
		}
		return replaceMembership(tx, id, boxIDs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
			return
		}
		if errors.Is(err, errUnknownBox) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "One or more box ids do not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{ID: id, Name: req.Name, RequiredBoxes: boxIDs})
}

// DeleteProfile godoc
// @Summary Delete a profile
// @Description Removes only the profile and its join rows, never the boxes
// @Tags profiles
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Profile{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM profile_boxes WHERE profile_id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete profile"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Profile deleted successfully"})
}
