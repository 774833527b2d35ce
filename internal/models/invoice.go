package models

import (
	"time"
)

// Invoice statuses. Created invoices move to submitted and then
// confirmed through the gateway flow, or straight to checked when money
// is verified manually. Confirmed and checked are terminal.
const (
	InvoiceStatusCreated   = "created"
	InvoiceStatusSubmitted = "submitted"
	InvoiceStatusConfirmed = "confirmed"
	InvoiceStatusChecked   = "checked"
)

// PaymentInvoice tracks a single expected payment from a member. The
// engine consumes its linked transactions for "previously paid" sums.
type PaymentInvoice struct {
	ID             int64     `json:"id" db:"id"`
	Code           string    `json:"code" db:"code" validate:"required"`
	MemberID       int64     `json:"member_id" db:"member_id"`
	RegistrationID int64     `json:"registration_id" db:"registration_id"`
	Amount         float64   `json:"amount" db:"amount" validate:"gt=0"`
	Method         string    `json:"payment_method" db:"payment_method" validate:"oneof=money credit token"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Terminal reports whether money for the invoice has already been
// received and verified.
func (i *PaymentInvoice) Terminal() bool {
	return i.Status == InvoiceStatusConfirmed || i.Status == InvoiceStatusChecked
}
