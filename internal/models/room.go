package models

// Room is a bookable room type with its nightly price.
type Room struct {
	ID       string   `json:"id"`
	Name     string   `json:"room_name"`
	Price    float64  `json:"price"`
	Capacity int64    `json:"capacity"`
	Images   []string `json:"images,omitempty"`
}

func RoomFromRecord(r Record) Room {
	room := Room{
		ID:       r.String("id", "room_id"),
		Name:     r.String("room_name", "name"),
		Price:    r.Float("price", "rate"),
		Capacity: r.Int("capacity"),
	}
	if room.Capacity <= 0 {
		room.Capacity = 1
	}
	if raw, ok := r.First("images"); ok {
		if list, ok := raw.([]any); ok {
			for _, img := range Records(list) {
				if src := img.String("image", "url"); src != "" {
					room.Images = append(room.Images, src)
				}
			}
		}
	}
	return room
}

func RoomsFromRecords(records []Record) []Room {
	out := make([]Room, 0, len(records))
	for _, r := range records {
		out = append(out, RoomFromRecord(r))
	}
	return out
}
