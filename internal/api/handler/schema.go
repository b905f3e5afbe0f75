package handler

import (
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type bookingRequest struct {
	Date          string           `json:"date" example:"2025-06-01"`
	StartTime     domain.ClockTime `json:"start_time" swaggertype:"string" example:"18:00"`
	EndTime       domain.ClockTime `json:"end_time" swaggertype:"string" example:"19:30"`
	Guests        int              `json:"number_of_guests"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	CustomerPhone string           `json:"customer_phone"`
	Notes         string           `json:"notes"`
}

type createReservationRequest struct {
	RestaurantID string `json:"restaurant_id"`
	bookingRequest
}

type tableReservationRequest struct {
	TableID string `json:"table_id"`
	bookingRequest
}

type statusRequest struct {
	Status domain.ReservationStatus `json:"status" swaggertype:"string" enums:"pending,confirmed,cancelled,completed"`
}

type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type restaurantRequest struct {
	Name string `json:"name"`
}

type settingsRequest struct {
	ReservationsNeedConfirmation bool `json:"reservations_need_confirmation"`
	MinGuests                    int  `json:"min_guests"`
	MaxGuests                    int  `json:"max_guests"`
	MinAdvanceMinutes            int  `json:"min_advance_minutes"`
	MaxAdvanceDays               int  `json:"max_advance_days"`
	CancellationWindowMinutes    int  `json:"cancellation_window_minutes"`
}

type settingsResponse struct {
	RestaurantID                 string `json:"restaurant_id"`
	ReservationsNeedConfirmation bool   `json:"reservations_need_confirmation"`
	MinGuests                    int    `json:"min_guests"`
	MaxGuests                    int    `json:"max_guests"`
	MinAdvanceMinutes            int    `json:"min_advance_minutes"`
	MaxAdvanceDays               int    `json:"max_advance_days"`
	CancellationWindowMinutes    int    `json:"cancellation_window_minutes"`
}

type tableRequest struct {
	Number   int `json:"number"`
	Capacity int `json:"capacity"`
}

type hireRequest struct {
	UserID      string                  `json:"user_id"`
	Role        domain.EmployeeRole     `json:"role" swaggertype:"string" enums:"owner,manager,staff"`
	Permissions []domain.PermissionType `json:"permissions" swaggertype:"array,string"`
}

type roleRequest struct {
	Role domain.EmployeeRole `json:"role" swaggertype:"string" enums:"owner,manager,staff"`
}

type activeRequest struct {
	Active bool `json:"is_active"`
}

type permissionRequest struct {
	Type domain.PermissionType `json:"type" swaggertype:"string"`
}

func minutes(d time.Duration) int { return int(d / time.Minute) }
