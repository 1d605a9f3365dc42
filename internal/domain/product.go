package domain

// Category of a candy-store product.
type Category string

const (
	CategorySnack Category = "snack"
	CategoryDrink Category = "drink"
	CategoryCombo Category = "combo"

	// CategoryAll is the filter sentinel meaning "no filtering".
	CategoryAll Category = "all"
)

type Product struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price"`
	ImageURL    string   `json:"imageUrl" bson:"image_url"`
	Category    Category `json:"category" bson:"category"`
}

type Premiere struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Duration    string `json:"duration"`
	Rating      string `json:"rating"`
}

// FilterByCategory returns the products whose category matches. The "all"
// sentinel returns the input unchanged.
func FilterByCategory(products []Product, category Category) []Product {
	if category == CategoryAll || category == "" {
		return products
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
