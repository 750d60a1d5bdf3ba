package domain

import (
	"strings"
	"time"
)

// Star bounds for a rating. No half-stars are stored; fractional display is a
// presentation affordance over integer data.
const (
	MinStars = 1
	MaxStars = 5
)

// AnonymousUserName is the display name substituted for redacted authors.
const AnonymousUserName = "Anonymous"

// Rating is one user's score for exactly one target, with an optional
// free-text review. AuthorID is nil iff the rating is anonymous.
type Rating struct {
	ID          string    `json:"id"`
	AuthorID    *string   `json:"author_id,omitempty"`
	UserName    string    `json:"user_name"`
	TargetType  string    `json:"target_type"`
	TargetID    string    `json:"target_id"`
	Stars       int       `json:"stars"`
	ReviewText  string    `json:"review_text,omitempty"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeriveAnonymity computes the effective anonymity of a rating. A rating with
// empty or whitespace-only review text is always anonymous regardless of the
// client's declared intent; one with real text follows the intent.
func DeriveAnonymity(intent bool, reviewText string) bool {
	return intent || strings.TrimSpace(reviewText) == ""
}

// ValidStars checks that the stars value is an integer in [MinStars, MaxStars].
func ValidStars(stars int) bool {
	return stars >= MinStars && stars <= MaxStars
}

// Redacted returns a copy of the rating safe for any read projection:
// anonymous ratings have their author stripped and display name replaced.
// Non-anonymous ratings pass through unchanged.
func (r Rating) Redacted() Rating {
	if !r.IsAnonymous {
		return r
	}
	r.AuthorID = nil
	r.UserName = AnonymousUserName
	return r
}

// OutletReview is one entry in the merged review feed for an outlet: a
// redacted rating tagged with the originating food item's name, or nil when
// the rating targets the outlet directly.
type OutletReview struct {
	Rating
	FoodItemName *string `json:"food_item_name,omitempty"`
}
