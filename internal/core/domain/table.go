package domain

import "time"

// Table is a bookable seating resource of a restaurant.
type Table struct {
	ID           string    `json:"id" bson:"_id"`
	RestaurantID string    `json:"restaurant_id" bson:"restaurant_id"`
	Number       int       `json:"number" bson:"number"`
	Capacity     int       `json:"capacity" bson:"capacity"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Fits reports whether the table can seat guests.
func (t Table) Fits(guests int) bool {
	return guests > 0 && guests <= t.Capacity
}
