package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Payment method values.
const (
	MethodCash         = "cash"
	MethodUPI          = "upi"
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
	MethodOther        = "other"
)

// Payment is an immutable ledger entry. There is no update or delete path;
// corrections are new entries.
type Payment struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID  snowflake.ID `json:"owner_id" gorm:"column:owner_id;not null;index:ix_payments_owner_month,priority:1"`
	TenantID snowflake.ID `json:"tenant_id" gorm:"not null;index"`

	PaymentDate time.Time `json:"payment_date" gorm:"not null"`
	// PaymentMonth is the billing month, normalized to the first of the month.
	PaymentMonth time.Time `json:"payment_month" gorm:"not null;index:ix_payments_owner_month,priority:2"`

	RentPaise         int64 `json:"rent_paise" gorm:"not null;default:0"`
	DepositPaise      int64 `json:"deposit_paise" gorm:"not null;default:0"`
	OtherChargesPaise int64 `json:"other_charges_paise" gorm:"not null;default:0"`

	Method  string  `json:"method" gorm:"type:text;not null"`
	Remarks *string `json:"remarks,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// TotalPaise is the full amount received in this entry.
func (p Payment) TotalPaise() int64 {
	return p.RentPaise + p.DepositPaise + p.OtherChargesPaise
}

// ValidMethod reports whether the payment method value is known.
func ValidMethod(method string) bool {
	switch method {
	case MethodCash, MethodUPI, MethodBankTransfer, MethodCard, MethodOther:
		return true
	}
	return false
}
