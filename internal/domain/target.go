package domain

import "time"

// Target type constants.
const (
	TargetTypeOutlet   = "OUTLET"
	TargetTypeFoodItem = "FOOD_ITEM"
)

// Outlet type constants.
const (
	OutletTypeMess       = "MESS"
	OutletTypeCanteen    = "CANTEEN"
	OutletTypeRestaurant = "RESTAURANT"
	OutletTypeCafe       = "CAFE"
)

// Target is anything that can receive ratings: an outlet or one of its food
// items. Both live in a single table so the aggregate fields can be locked
// and updated uniformly. AverageRating and TotalRatings are derived fields
// owned exclusively by the rating write path; no handler mutates them
// directly.
type Target struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	OutletID      *string   `json:"outlet_id,omitempty"`    // parent outlet, set for food items
	OutletType    string    `json:"outlet_type,omitempty"`  // MESS, CANTEEN, RESTAURANT, CAFE; set for outlets
	Location      string    `json:"location,omitempty"`     // outlets only
	PriceRupees   *int      `json:"price_rupees,omitempty"` // food items only
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary returns the target's current aggregate fields.
func (t Target) Summary() RatingSummary {
	return RatingSummary{AverageRating: t.AverageRating, TotalRatings: t.TotalRatings}
}

// ValidOutletTypes returns the set of valid outlet types.
func ValidOutletTypes() []string {
	return []string{OutletTypeMess, OutletTypeCanteen, OutletTypeRestaurant, OutletTypeCafe}
}

// IsValidOutletType checks whether the given string is a valid outlet type.
func IsValidOutletType(outletType string) bool {
	for _, t := range ValidOutletTypes() {
		if t == outletType {
			return true
		}
	}
	return false
}

// IsValidTargetType checks whether the given string is a valid target type.
func IsValidTargetType(targetType string) bool {
	return targetType == TargetTypeOutlet || targetType == TargetTypeFoodItem
}
