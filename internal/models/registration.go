package models

import (
	"time"
)

// PaymentStatus describes how far a registration is paid up.
type PaymentStatus string

const (
	PaymentStatusNone     PaymentStatus = "none"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusComplete PaymentStatus = "complete"
	PaymentStatusOverpaid PaymentStatus = "over-paid"
)

// Ticket tiers with special accounting behaviour.
const (
	TierStandard    = "standard"
	TierPatron      = "patron"
	TierWaitingList = "waiting"
)

// Registration is a member's sign-up for a run. TotalOwed, TotalPaid,
// PaymentsByMethod, Quota, Deadline and Status are derived fields,
// overwritten on every recompute.
type Registration struct {
	ID               int64         `json:"id" db:"id"`
	MemberID         int64         `json:"member_id" db:"member_id"`
	RunID            int64         `json:"run_id" db:"run_id"`
	TicketID         *int64        `json:"ticket_id" db:"ticket_id"`
	Additionals      int           `json:"additionals" db:"additionals" validate:"gte=0"`
	PayWhat          float64       `json:"pay_what" db:"pay_what" validate:"gte=0"`
	Quotas           int           `json:"quotas" db:"quotas" validate:"gte=1"`
	Surcharge        float64       `json:"surcharge" db:"surcharge"`
	RedeemCode       string        `json:"redeem_code" db:"redeem_code"`
	CancellationDate *time.Time    `json:"cancellation_date" db:"cancellation_date"`
	Created          time.Time     `json:"created" db:"created"`
	TotalOwed        float64       `json:"total_owed" db:"total_owed"`
	TotalPaid        float64       `json:"total_paid" db:"total_paid"`
	Quota            float64       `json:"quota" db:"quota"`
	Deadline         int           `json:"deadline" db:"deadline"`
	Status           PaymentStatus `json:"payment_status" db:"payment_status"`

	// PaymentsByMethod is filled by the payment aggregator and consumed
	// by export and VAT code. Not persisted.
	PaymentsByMethod map[string]float64 `json:"payments_by_method,omitempty" db:"-"`
}

// Gifted reports whether the registration was redeemed as a gift, which
// suppresses discounts.
func (r *Registration) Gifted() bool {
	return r.RedeemCode != ""
}

// Ticket is a registration tier with its base price.
type Ticket struct {
	ID      int64   `json:"id" db:"id"`
	EventID int64   `json:"event_id" db:"event_id"`
	Name    string  `json:"name" db:"name"`
	Tier    string  `json:"tier" db:"tier"`
	Price   float64 `json:"price" db:"price" validate:"gte=0"`
}

// RegistrationSurcharge is a late-booking fee that applies to
// registrations created on or after its date.
type RegistrationSurcharge struct {
	ID      int64     `json:"id" db:"id"`
	EventID int64     `json:"event_id" db:"event_id"`
	Amount  float64   `json:"amount" db:"amount" validate:"gte=0"`
	Date    time.Time `json:"date" db:"date"`
}

// RegistrationInstallment is an explicitly configured partial-payment
// milestone. DaysDeadline counts forward from the registration creation
// date (or the membership approval date, per configuration).
type RegistrationInstallment struct {
	ID           int64   `json:"id" db:"id"`
	EventID      int64   `json:"event_id" db:"event_id"`
	Amount       float64 `json:"amount" db:"amount" validate:"gte=0"`
	DaysDeadline int     `json:"days_deadline" db:"days_deadline"`
	Order        int     `json:"order" db:"sequence"`
}
