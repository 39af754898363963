// Package models defines the marketplace entities persisted through gorm.
package models

import "gorm.io/gorm"

// User is a marketplace account. Password is never serialised; its format
// depends on the configured verifier scheme.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;size:255" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	Orders  []Order  `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	Reviews []Review `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
}

// Category groups items. Deleting one detaches its items instead of
// cascading.
type Category struct {
	gorm.Model
	Name string `gorm:"size:100;not null" json:"name"`

	Items []Item `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}

// Item is a listing. The three media URLs are filled in as assets are
// uploaded, so all are nullable.
type Item struct {
	gorm.Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int    `gorm:"not null" json:"price"`

	Image *string `gorm:"size:1024" json:"image"`
	Video *string `gorm:"size:1024" json:"video"`
	Splat *string `gorm:"size:1024" json:"splat"`

	CategoryID *uint `gorm:"index" json:"category_id"`

	Orders  []Order  `gorm:"foreignKey:ItemID" json:"orders,omitempty"`
	Reviews []Review `gorm:"foreignKey:ItemID" json:"reviews,omitempty"`
}

// Order records a purchase. Price is the per-unit price at the moment the
// order was placed; the item's own price is never touched.
type Order struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"user_id"`
	ItemID uint `gorm:"index;not null" json:"item_id"`
	Price  int  `gorm:"not null" json:"price"`
	Count  int  `gorm:"not null" json:"count"`
	Pay    bool `gorm:"not null;default:false" json:"pay"`
}

// Total is the order's line total at purchase-time rates.
func (o Order) Total() int {
	return o.Price * o.Count
}

// Review is a user's star rating and comment on an item.
type Review struct {
	gorm.Model
	Content string `gorm:"type:text" json:"content"`
	Star    int    `gorm:"not null" json:"star"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	ItemID  uint   `gorm:"index;not null" json:"item_id"`
}
