package models

import (
	"time"
)

// Vote is a member's vote for a proposal. A user votes at most once per trip,
// enforced by idx_votes_user_trip.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_trip" json:"user_id"`
	TripID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_trip;index" json:"trip_id"`
	Trip      *Trip     `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Vote model
func (Vote) TableName() string {
	return "votes"
}

// Visibility controls whether an interested member is shown by name
type Visibility string

const (
	VisibilityAnonymous Visibility = "anonymous"
	VisibilityNamed     Visibility = "named"
)

// Valid reports whether v is a known visibility
func (v Visibility) Valid() bool {
	return v == VisibilityAnonymous || v == VisibilityNamed
}

// InterestLevel grades how keen a member is on a trip
type InterestLevel string

const (
	InterestCurious    InterestLevel = "curious"
	InterestInterested InterestLevel = "interested"
	InterestCommitted  InterestLevel = "committed"
)

// Valid reports whether l is a known interest level
func (l InterestLevel) Valid() bool {
	switch l {
	case InterestCurious, InterestInterested, InterestCommitted:
		return true
	}
	return false
}

// TripInterest records that a member wants to join a trip (a "favorite").
// One row per user and trip, enforced by idx_interest_user_trip.
type TripInterest struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	UserID           uint          `gorm:"not null;uniqueIndex:idx_interest_user_trip" json:"user_id"`
	TripID           uint          `gorm:"not null;uniqueIndex:idx_interest_user_trip;index" json:"trip_id"`
	InterestLevel    InterestLevel `gorm:"size:20;not null;default:interested" json:"interest_level"`
	PublicVisibility Visibility    `gorm:"size:20;not null;default:anonymous" json:"public_visibility"`
	Note             string        `gorm:"type:text" json:"note,omitempty"`
	CreatedAt        time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// TableName specifies the table name for TripInterest model
func (TripInterest) TableName() string {
	return "trip_interests"
}
