package models

import (
	"time"
)

// Payment instruments.
const (
	MethodMoney  = "money"
	MethodCredit = "credit"
	MethodToken  = "token"
)

// Kinds for AccountingItemOther.
const (
	OtherToken  = "token"
	OtherCredit = "credit"
	OtherRefund = "refund"
)

// AccountingItemPayment is money (or virtual currency) received against
// a registration. VatTicket/VatOptions are filled by the VAT splitter
// for money payments when VAT is enabled.
type AccountingItemPayment struct {
	ID             int64     `json:"id" db:"id"`
	RegistrationID int64     `json:"registration_id" db:"registration_id"`
	MemberID       int64     `json:"member_id" db:"member_id"`
	RunID          int64     `json:"run_id" db:"run_id"`
	Value          float64   `json:"value" db:"value" validate:"gte=0"`
	Method         string    `json:"payment_method" db:"payment_method" validate:"oneof=money credit token"`
	InvoiceID      *int64    `json:"invoice_id" db:"invoice_id"`
	Hidden         bool      `json:"hidden" db:"hidden"`
	VatTicket      float64   `json:"vat_ticket" db:"vat_ticket"`
	VatOptions     float64   `json:"vat_options" db:"vat_options"`
	Created        time.Time `json:"created" db:"created"`
}

// AccountingItemTransaction is a payment-processor fee. UserBurden fees
// are charged to the payer and counted against their paid total.
type AccountingItemTransaction struct {
	ID             int64     `json:"id" db:"id"`
	RegistrationID int64     `json:"registration_id" db:"registration_id"`
	InvoiceID      *int64    `json:"invoice_id" db:"invoice_id"`
	Value          float64   `json:"value" db:"value" validate:"gte=0"`
	UserBurden     bool      `json:"user_burden" db:"user_burden"`
	Created        time.Time `json:"created" db:"created"`
}

// AccountingItemDiscount is a discount applied to a member's
// registration on a run.
type AccountingItemDiscount struct {
	ID         int64   `json:"id" db:"id"`
	DiscountID int64   `json:"discount_id" db:"discount_id"`
	MemberID   int64   `json:"member_id" db:"member_id"`
	RunID      int64   `json:"run_id" db:"run_id"`
	Value      float64 `json:"value" db:"value" validate:"gte=0"`
}

// Discount is a discount definition. MaxRedeem 0 means unlimited.
type Discount struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Value     float64 `json:"value" db:"value" validate:"gte=0"`
	MaxRedeem int     `json:"max_redeem" db:"max_redeem" validate:"gte=0"`
	RunIDs    []int64 `json:"run_ids" db:"-"`
}

// AccountingItemOther covers token and credit issues and refunds.
type AccountingItemOther struct {
	ID           int64     `json:"id" db:"id"`
	RunID        int64     `json:"run_id" db:"run_id"`
	MemberID     int64     `json:"member_id" db:"member_id"`
	Value        float64   `json:"value" db:"value" validate:"gte=0"`
	Kind         string    `json:"kind" db:"kind" validate:"oneof=token credit refund"`
	Cancellation bool      `json:"cancellation" db:"cancellation"`
	Created      time.Time `json:"created" db:"created"`
}

// AccountingItemExpense is an organisation expense; only approved
// expenses count toward run costs.
type AccountingItemExpense struct {
	ID       int64     `json:"id" db:"id"`
	RunID    int64     `json:"run_id" db:"run_id"`
	Value    float64   `json:"value" db:"value" validate:"gte=0"`
	Category string    `json:"category" db:"category"`
	Approved bool      `json:"approved" db:"approved"`
	Created  time.Time `json:"created" db:"created"`
}

// AccountingItemFlow is a monetary inflow or outflow. RunID is nil for
// executive-level flows not tied to any run.
type AccountingItemFlow struct {
	ID       int64     `json:"id" db:"id"`
	RunID    *int64    `json:"run_id" db:"run_id"`
	Value    float64   `json:"value" db:"value" validate:"gte=0"`
	Category string    `json:"category" db:"category"`
	Created  time.Time `json:"created" db:"created"`
}

// RecordAccounting is an immutable audit snapshot written by the
// check-accounting operation. Never mutated after creation.
type RecordAccounting struct {
	ID            string    `json:"id" db:"id"`
	AssociationID int64     `json:"association_id" db:"association_id"`
	RunID         *int64    `json:"run_id" db:"run_id"`
	GlobalSum     float64   `json:"global_sum" db:"global_sum"`
	BankSum       float64   `json:"bank_sum" db:"bank_sum"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
