package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditTransactionType is the business reason for a credit movement
type CreditTransactionType string

const (
	CreditCreatorReward   CreditTransactionType = "creator_reward"
	CreditBookingUsed     CreditTransactionType = "booking_used"
	CreditAdminAdjustment CreditTransactionType = "admin_adjustment"
	CreditExpired         CreditTransactionType = "expired"
)

// Valid reports whether t is a known transaction type
func (t CreditTransactionType) Valid() bool {
	switch t {
	case CreditCreatorReward, CreditBookingUsed, CreditAdminAdjustment, CreditExpired:
		return true
	}
	return false
}

// Reference types attached to credit transactions
const (
	ReferenceTrip    = "trip"
	ReferenceBooking = "booking"
	ReferenceAdmin   = "admin"
)

// CreditTransaction is an append-only travel credit ledger row. Grants are
// positive, uses are negative. Rows are never updated or deleted.
type CreditTransaction struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uint                  `gorm:"not null;index" json:"user_id"`
	AmountCents   int64                 `gorm:"not null" json:"amount_cents"`
	Type          CreditTransactionType `gorm:"size:30;not null;index" json:"type"`
	ReferenceType string                `gorm:"size:30" json:"reference_type,omitempty"`
	ReferenceID   string                `gorm:"size:64;index" json:"reference_id,omitempty"`
	Description   string                `gorm:"type:text" json:"description"`
	CreatedAt     time.Time             `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for CreditTransaction model
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// BeforeCreate assigns the ledger id client-side so SQLite and Postgres agree
func (t *CreditTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
