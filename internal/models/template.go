package models

import "time"

// Template is a reusable named list of item/quantity pairs used to
// bulk-populate a box. It is independent of any box instance.
type Template struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Items     []TemplateItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

// TemplateItem is one (name, quantity) entry of a template
type TemplateItem struct {
	ID         uint   `gorm:"primarykey" json:"-"`
	TemplateID uint   `gorm:"not null;index" json:"-"`
	Name       string `gorm:"not null" json:"name"`
	Quantity   int    `gorm:"not null;default:1" json:"quantity"`
}
