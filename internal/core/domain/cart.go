package domain

import "time"

// CartItem is one line of a user's shopping cart.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"userId"`
	ProductID string    `json:"productId"`
	Qty       int       `json:"qty"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
