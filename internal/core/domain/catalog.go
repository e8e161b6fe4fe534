package domain

import "time"

// Category groups products in the catalog.
type Category struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalog entry. Deleted products are hidden from every read path.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductSort is the ordering applied to product listings.
type ProductSort string

const (
	SortNameAsc  ProductSort = "asc"
	SortNameDesc ProductSort = "desc"
	SortLatest   ProductSort = "latest"
	SortOldest   ProductSort = "oldest"
)

// ParseProductSort maps s to a known sort, defaulting to name ascending.
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortNameDesc, SortLatest, SortOldest:
		return ProductSort(s)
	default:
		return SortNameAsc
	}
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryNames []string
	Search        string
	Sort          ProductSort
	Page          Page
}

// ProductChanges carries the optional fields of an admin product update.
// CategoryIDs, when non-nil, replaces the product's category set.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Image       *string
	CategoryIDs []uint
}
