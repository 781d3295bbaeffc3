package domain

import "time"

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Category    string    `bson:"category" json:"category"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductFilter narrows and pages a catalog listing. Sort is a
// comma-separated field list; a leading '-' means descending.
type ProductFilter struct {
	Page     int
	Limit    int
	Category string
	Search   string
	Sort     string
}

type ProductPage struct {
	Products      []Product `json:"products"`
	TotalProducts int64     `json:"total_products"`
	TotalPages    int       `json:"total_pages"`
	CurrentPage   int       `json:"current_page"`
}

// ProductUpdate carries a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
}
