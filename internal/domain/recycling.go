package domain

import "time"

// RecyclingStatus is the review state of a recycling submission.
type RecyclingStatus string

const (
	RecyclingPending  RecyclingStatus = "pending"
	RecyclingApproved RecyclingStatus = "approved"
	RecyclingRejected RecyclingStatus = "rejected"
)

// ValidRecyclingStatus reports whether s is a known recycling status.
func ValidRecyclingStatus(s RecyclingStatus) bool {
	switch s {
	case RecyclingPending, RecyclingApproved, RecyclingRejected:
		return true
	}
	return false
}

// RecyclingEntry is a user-submitted recycling record awaiting review.
type RecyclingEntry struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Material      string          `json:"material"`
	WeightGrams   int             `json:"weightGrams"`
	Status        RecyclingStatus `json:"status"`
	PointsAwarded int             `json:"pointsAwarded,omitempty"`
	CarbonSavedG  int             `json:"carbonSavedGrams,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Event is a community event created by an organizer.
type Event struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
