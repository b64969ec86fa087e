package models

// Item is a unit of contents belonging to exactly one box
type Item struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	BoxID            uint   `gorm:"not null;index" json:"-"`
	Name             string `gorm:"not null" json:"name"`
	Quantity         int    `gorm:"not null;default:1" json:"quantity"`
	NeedsReplacement bool   `gorm:"not null;default:false" json:"needsReplacement"`
}
