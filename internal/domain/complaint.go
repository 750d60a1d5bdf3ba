package domain

import (
	"strings"
	"time"
)

// Complaint status filter values for listings.
const (
	StatusFilterAll      = "ALL"
	StatusFilterPending  = "PENDING"
	StatusFilterResolved = "RESOLVED"
)

// Complaint grouping modes for listings.
const (
	GroupByNone   = "NONE"
	GroupByOutlet = "OUTLET"
)

// Complaint is a free-text grievance tied to one outlet. OutletName is
// denormalized for display. Deletion is physical removal; there is no
// tombstone state.
type Complaint struct {
	ID            string    `json:"id"`
	OutletID      string    `json:"outlet_id"`
	OutletName    string    `json:"outlet_name"`
	AuthorID      *string   `json:"author_id,omitempty"`
	UserName      string    `json:"user_name"`
	ComplaintText string    `json:"complaint_text"`
	IsAnonymous   bool      `json:"is_anonymous"`
	IsResolved    bool      `json:"is_resolved"`
	CreatedAt     time.Time `json:"created_at"`
}

// Status returns the complaint's lifecycle status as a filter value.
func (c Complaint) Status() string {
	if c.IsResolved {
		return StatusFilterResolved
	}
	return StatusFilterPending
}

// Redacted returns a copy safe for read projections. Anonymity withholds the
// author from everyone, admins included.
func (c Complaint) Redacted() Complaint {
	if !c.IsAnonymous {
		return c
	}
	c.AuthorID = nil
	c.UserName = AnonymousUserName
	return c
}

// ValidComplaintText checks that the text is non-empty after trimming.
func ValidComplaintText(text string) bool {
	return strings.TrimSpace(text) != ""
}

// IsValidStatusFilter checks whether the given string is a valid status filter.
func IsValidStatusFilter(filter string) bool {
	return filter == StatusFilterAll || filter == StatusFilterPending || filter == StatusFilterResolved
}

// IsValidGroupBy checks whether the given string is a valid grouping mode.
func IsValidGroupBy(groupBy string) bool {
	return groupBy == GroupByNone || groupBy == GroupByOutlet
}

// ComplaintGroup is one partition of a complaint listing: its label (the
// outlet name, or "ALL" when ungrouped), the complaints in it, and their
// count over the filtered set.
type ComplaintGroup struct {
	Label      string      `json:"label"`
	Count      int         `json:"count"`
	Complaints []Complaint `json:"complaints"`
}

// ComplaintStats are global counts over the unfiltered complaint set.
type ComplaintStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
}

// ComplaintListing is the admin complaint view: filtered complaints carved
// into ordered groups plus global statistics.
type ComplaintListing struct {
	Groups []ComplaintGroup `json:"groups"`
	Stats  ComplaintStats   `json:"stats"`
}

// BuildComplaintListing projects the full unfiltered complaint set into a
// listing. Stats count the unfiltered set; group counts cover only the
// filtered set. Group order is first-seen order among the filtered results,
// and every complaint is redacted before leaving the domain.
func BuildComplaintListing(all []Complaint, statusFilter, groupBy string) ComplaintListing {
	var stats ComplaintStats
	for _, c := range all {
		stats.Total++
		if c.IsResolved {
			stats.Resolved++
		} else {
			stats.Pending++
		}
	}

	var filtered []Complaint
	for _, c := range all {
		switch statusFilter {
		case StatusFilterPending:
			if c.IsResolved {
				continue
			}
		case StatusFilterResolved:
			if !c.IsResolved {
				continue
			}
		}
		filtered = append(filtered, c.Redacted())
	}

	var groups []ComplaintGroup
	if groupBy == GroupByOutlet {
		index := make(map[string]int)
		for _, c := range filtered {
			i, ok := index[c.OutletName]
			if !ok {
				i = len(groups)
				index[c.OutletName] = i
				groups = append(groups, ComplaintGroup{Label: c.OutletName})
			}
			groups[i].Complaints = append(groups[i].Complaints, c)
			groups[i].Count++
		}
	} else {
		groups = []ComplaintGroup{{
			Label:      StatusFilterAll,
			Count:      len(filtered),
			Complaints: filtered,
		}}
	}

	return ComplaintListing{Groups: groups, Stats: stats}
}
