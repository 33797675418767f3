package models

// FoodItem is a dish on the restaurant menu.
type FoodItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

func FoodItemFromRecord(r Record) FoodItem {
	return FoodItem{
		ID:       r.Int("id"),
		Name:     r.String("name"),
		Category: r.String("category"),
		Price:    r.Float("price"),
		Image:    r.String("image_url", "image"),
	}
}

func FoodItemsFromRecords(records []Record) []FoodItem {
	out := make([]FoodItem, 0, len(records))
	for _, r := range records {
		out = append(out, FoodItemFromRecord(r))
	}
	return out
}

// OrderLine is a menu item with the quantity ordered in one session.
type OrderLine struct {
	Item     FoodItem `json:"item"`
	Quantity int64    `json:"qty"`
}

// Amount is price times quantity.
func (l OrderLine) Amount() float64 {
	return l.Item.Price * float64(l.Quantity)
}

// ConfirmedOrder is the result of confirming a session's cart.
type ConfirmedOrder struct {
	SessionID string      `json:"session_id"`
	Message   string      `json:"message"`
	Lines     []OrderLine `json:"lines"`
	Total     float64     `json:"total"`
	Link      string      `json:"link,omitempty"`
}
