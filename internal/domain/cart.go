package domain

import "time"

type Cart struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	Items       []CartItem `bson:"items" json:"items"`
	TotalAmount float64    `bson:"total_amount" json:"total_amount"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// FindItem returns the index of the line item holding productID, or -1.
// Items are unique by product id; duplicates are merged on add.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CartDetail is a cart with product references expanded for display.
type CartDetail struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Items       []CartItemDetail `json:"items"`
	TotalAmount float64          `json:"total_amount"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type CartItemDetail struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
