package models

import "time"

// DefaultBoxColor is used when a box is created without an explicit color.
const DefaultBoxColor = "#3b82f6"

// Box represents a physical storage container and its contents
type Box struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Color          string     `gorm:"not null" json:"color"`
	Weight         int        `gorm:"not null;default:0" json:"weight"`
	Notes          string     `json:"notes"`
	LastInspection *time.Time `json:"lastInspection"`
	InTrailer      bool       `gorm:"not null;default:false" json:"inTrailer"`
	Items          []Item     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}
