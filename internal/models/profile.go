package models

import "time"

// Profile is a named checklist of boxes required for an outing. Membership
// lives in the profile_boxes join table; deleting a box must drop its rows
// from every profile.
type Profile struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	RequiredBoxes []Box     `gorm:"many2many:profile_boxes;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
