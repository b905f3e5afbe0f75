package domain

import "time"

// Restaurant is the aggregate root every other entity resolves to for
// authorization.
type Restaurant struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ReservationSettings is the per-restaurant configuration consulted by
// reservation validators.
type ReservationSettings struct {
	RestaurantID                 string        `json:"restaurant_id" bson:"_id"`
	ReservationsNeedConfirmation bool          `json:"reservations_need_confirmation" bson:"reservations_need_confirmation"`
	MinGuests                    int           `json:"min_guests" bson:"min_guests"`
	MaxGuests                    int           `json:"max_guests" bson:"max_guests"`
	MinAdvance                   time.Duration `json:"min_advance" bson:"min_advance"`
	MaxAdvanceDays               int           `json:"max_advance_days" bson:"max_advance_days"`
	CancellationWindow           time.Duration `json:"cancellation_window" bson:"cancellation_window"`
}

// DefaultSettings is used when a restaurant has no stored settings.
func DefaultSettings(restaurantID string) ReservationSettings {
	return ReservationSettings{
		RestaurantID:   restaurantID,
		MinGuests:      1,
		MaxGuests:      20,
		MaxAdvanceDays: 90,
	}
}
