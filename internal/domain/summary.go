package domain

import "math"

// RatingSummary holds the derived aggregate fields of a target: the running
// average and count of its stars. Values are kept unrounded; rounding happens
// only at presentation time so repeated incremental updates do not compound
// error.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// RecordInsertion returns the summary after one more rating with the given
// stars: average' = (average*n + stars) / (n+1).
func (s RatingSummary) RecordInsertion(stars int) RatingSummary {
	n := float64(s.TotalRatings)
	return RatingSummary{
		AverageRating: (s.AverageRating*n + float64(stars)) / (n + 1),
		TotalRatings:  s.TotalRatings + 1,
	}
}

// RecordDeletion returns the summary after removing one rating with the given
// stars: average' = (average*n - stars) / (n-1). Removing the last rating
// resets the summary to (0.0, 0); the count never goes negative and the
// divisor is never zero.
func (s RatingSummary) RecordDeletion(stars int) RatingSummary {
	if s.TotalRatings <= 1 {
		return RatingSummary{}
	}
	n := float64(s.TotalRatings)
	return RatingSummary{
		AverageRating: (s.AverageRating*n - float64(stars)) / (n - 1),
		TotalRatings:  s.TotalRatings - 1,
	}
}

// RecomputeSummary rebuilds a summary from the full star set. This is the
// drift-repair path: if the incremental aggregate ever disagrees with the
// underlying ratings, recomputing from scratch restores the invariant.
func RecomputeSummary(stars []int) RatingSummary {
	if len(stars) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, s := range stars {
		sum += s
	}
	return RatingSummary{
		AverageRating: float64(sum) / float64(len(stars)),
		TotalRatings:  len(stars),
	}
}

// RoundedAverage returns the average rounded to one decimal place for display.
func (s RatingSummary) RoundedAverage() float64 {
	return math.Round(s.AverageRating*10) / 10
}
