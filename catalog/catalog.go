package catalog

import (
	"fmt"
	"strings"

	"checkout-service/models"
)

// products is the full catalog, fixed at process start.
var products = []models.Product{
	{
		ID:          "prod_1",
		Name:        "Premium Course",
		Description: "Complete web checkout integration course",
		Price:       4999,
		Currency:    "usd",
		Image:       "/images/course-premium.jpg",
	},
	{
		ID:          "prod_2",
		Name:        "Basic Course",
		Description: "Introduction to online payments",
		Price:       2999,
		Currency:    "usd",
		Image:       "/images/course-basic.jpg",
	},
	{
		ID:          "prod_3",
		Name:        "Advanced Workshop",
		Description: "Advanced payment flows and webhooks",
		Price:       7999,
		Currency:    "usd",
		Image:       "/images/workshop-advanced.jpg",
	},
}

// Products returns a copy of the catalog.
func Products() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

// GetProductByID looks up a catalog entry by its identifier.
func GetProductByID(id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// FormatPrice renders a minor-unit amount as a display string, e.g. "49.99 USD".
func FormatPrice(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, strings.ToUpper(currency))
}
