package models

// Product is a catalog entry. The catalog is fixed at process start; prices are
// in the smallest currency unit (cents for USD).
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Image       string `json:"image,omitempty"`
}
