package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProposalStatus is the lifecycle state of a trip proposal. The zero value,
// StatusNotAProposal, marks a legacy trip and is persisted as NULL.
type ProposalStatus string

const (
	StatusNotAProposal    ProposalStatus = ""
	StatusPendingReview   ProposalStatus = "pending_review"
	StatusVoting          ProposalStatus = "voting"
	StatusReadyToSchedule ProposalStatus = "ready_to_schedule"
	StatusScheduled       ProposalStatus = "scheduled"
	StatusArchived        ProposalStatus = "archived"
)

// ParseProposalStatus converts a persisted or user-supplied value into a
// proposal status. Only the five proposal states are accepted.
func ParseProposalStatus(s string) (ProposalStatus, bool) {
	switch st := ProposalStatus(s); st {
	case StatusPendingReview, StatusVoting, StatusReadyToSchedule, StatusScheduled, StatusArchived:
		return st, true
	}
	return StatusNotAProposal, false
}

// IsProposal reports whether the trip participates in the proposal lifecycle
func (s ProposalStatus) IsProposal() bool {
	return s != StatusNotAProposal
}

// IsOpen reports whether votes are accepted in this state
func (s ProposalStatus) IsOpen() bool {
	return s == StatusVoting || s == StatusReadyToSchedule
}

// IsTerminal reports whether no further transition is possible
func (s ProposalStatus) IsTerminal() bool {
	return s == StatusScheduled || s == StatusArchived
}

// Value implements driver.Valuer
func (s ProposalStatus) Value() (driver.Value, error) {
	if s == StatusNotAProposal {
		return nil, nil
	}
	return string(s), nil
}

// Scan implements sql.Scanner
func (s *ProposalStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = StatusNotAProposal
	case string:
		*s = ProposalStatus(v)
	case []byte:
		*s = ProposalStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into ProposalStatus", value)
	}
	return nil
}

// MarshalJSON renders legacy trips as null
func (s ProposalStatus) MarshalJSON() ([]byte, error) {
	if s == StatusNotAProposal {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// SourceType tells who authored a trip
type SourceType string

const (
	SourceNTG    SourceType = "ntg"
	SourceMember SourceType = "member"
)

// Default viability thresholds applied when a proposal carries no rule
const (
	DefaultMinInterested = 10
	DefaultMinVotes      = 5
)

// ViabilityRule is the per-proposal threshold a proposal must reach before it
// can be scheduled. MinVotes is optional and falls back to DefaultMinVotes.
type ViabilityRule struct {
	MinInterested int  `json:"minInterested"`
	MinVotes      *int `json:"minVotes,omitempty"`
}

// Thresholds resolves the rule against the defaults
func (r *ViabilityRule) Thresholds() (minInterested, minVotes int) {
	if r == nil {
		return DefaultMinInterested, DefaultMinVotes
	}
	minVotes = DefaultMinVotes
	if r.MinVotes != nil {
		minVotes = *r.MinVotes
	}
	return r.MinInterested, minVotes
}

// Trip is a published or draft trip. Trips with a non-empty ProposalStatus are
// community proposals going through the review and voting lifecycle.
type Trip struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Slug               string         `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Title              string         `gorm:"size:300;not null" json:"title"`
	Summary            string         `gorm:"type:text" json:"summary"`
	Description        string         `gorm:"type:text" json:"description"`
	Destination        string         `gorm:"size:200" json:"destination"`
	StartDate          *time.Time     `json:"start_date,omitempty"`
	EndDate            *time.Time     `json:"end_date,omitempty"`
	PriceCents         int64          `gorm:"default:0" json:"price_cents"`
	HeroImageURL       string         `gorm:"size:500" json:"hero_image_url,omitempty"`
	SourceType         SourceType     `gorm:"size:20;not null;default:ntg" json:"source_type"`
	CreatedByUserID    *uint          `gorm:"index" json:"created_by_user_id,omitempty"`
	ProposalStatus     ProposalStatus `gorm:"size:30;index" json:"proposal_status"`
	ViabilityRule      *ViabilityRule `gorm:"serializer:json;type:text" json:"viability_rule,omitempty"`
	IsPublished        bool           `gorm:"not null;default:false;index" json:"is_published"`
	CreatorRewardCents int64          `gorm:"not null;default:2000" json:"creator_reward_cents"`
	RewardPaidAt       *time.Time     `json:"reward_paid_at,omitempty"`
	StatusChangedAt    *time.Time     `json:"status_changed_at,omitempty"`
	ReviewedAt         *time.Time     `json:"reviewed_at,omitempty"`
	ScheduledAt        *time.Time     `json:"scheduled_at,omitempty"`
	AdminNotes         string         `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Trip model
func (Trip) TableName() string {
	return "trips"
}

// RewardEligible reports whether scheduling this trip owes its creator a reward
func (t *Trip) RewardEligible() bool {
	return t.SourceType == SourceMember && t.CreatedByUserID != nil && t.RewardPaidAt == nil
}
