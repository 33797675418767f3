package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Check-in record statuses.
const (
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
)

// Food categories offered on the menu.
const (
	CategoryAll     = "all"
	CategoryBread   = "bread"
	CategoryDrinks  = "drinks"
	CategoryVeg     = "veg"
	CategoryNonVeg  = "non-veg"
	CategoryDessert = "dessert"
)

var FoodCategories = []string{
	CategoryBread,
	CategoryDrinks,
	CategoryVeg,
	CategoryNonVeg,
	CategoryDessert,
}

const (
	// ChartDays is the length of the dashboard check-in series.
	ChartDays = 30

	// ChartLabelLayout renders chart labels like "Oct 05".
	ChartLabelLayout = "Jan 02"

	// DefaultCurrency prefixes amounts in order messages.
	DefaultCurrency = "₹"

	// DefaultCartTTL время жизни корзины в секундах
	DefaultCartTTL = 6 * 60 * 60

	// UpstreamCacheTTL время жизни кэша коллекций в секундах
	UpstreamCacheTTL = 30
)

// StatusIs compares a stored status case-insensitively.
func StatusIs(status, want string) bool {
	return normalizeStatus(status) == want
}
