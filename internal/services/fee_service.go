package services

import (
	"database/sql"
	"time"

	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

// FeeService computes the total amount owed for a registration.
type FeeService struct {
	db Querier
}

func NewFeeService(db Querier) *FeeService {
	return &FeeService{db: db}
}

// TotalOwed fetches the registration's ticket, options, discounts and
// configured surcharges and returns the total amount owed, floored at
// zero. The applicable date surcharge is written onto the registration;
// the total itself is written back by the caller.
func (fs *FeeService) TotalOwed(reg *models.Registration) (float64, error) {
	var ticketPrice float64
	var ticketTier string

	if reg.TicketID != nil {
		err := fs.db.QueryRow(`
			SELECT price, tier FROM tickets WHERE id = $1
		`, *reg.TicketID).Scan(&ticketPrice, &ticketTier)
		if err != nil && err != sql.ErrNoRows {
			return 0, err
		}
	}

	var options float64
	err := fs.db.QueryRow(`
		SELECT COALESCE(SUM(price), 0) FROM registration_options
		WHERE registration_id = $1
	`, reg.ID).Scan(&options)
	if err != nil {
		return 0, err
	}

	var discount float64
	if !reg.Gifted() {
		err = fs.db.QueryRow(`
			SELECT COALESCE(SUM(value), 0) FROM accounting_item_discounts
			WHERE member_id = $1 AND run_id = $2
		`, reg.MemberID, reg.RunID).Scan(&discount)
		if err != nil {
			return 0, err
		}
	}

	surcharge, err := fs.dateSurcharge(reg, ticketTier)
	if err != nil {
		return 0, err
	}
	reg.Surcharge = surcharge

	return computeTotalOwed(ticketPrice, reg.Additionals, options, reg.PayWhat, surcharge, discount), nil
}

// dateSurcharge returns the amount of the latest configured surcharge
// whose effective date is on or before the registration's creation
// date. Waiting-list tiers never pay a surcharge.
func (fs *FeeService) dateSurcharge(reg *models.Registration, ticketTier string) (float64, error) {
	if ticketTier == models.TierWaitingList {
		return 0, nil
	}

	var eventID int64
	err := fs.db.QueryRow(`
		SELECT event_id FROM runs WHERE id = $1
	`, reg.RunID).Scan(&eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}

	var amount float64
	err = fs.db.QueryRow(`
		SELECT amount FROM registration_surcharges
		WHERE event_id = $1 AND date <= $2
		ORDER BY date DESC
		LIMIT 1
	`, eventID, reg.Created).Scan(&amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return amount, nil
}

// computeTotalOwed applies the fee formula: ticket price for the payer
// plus one per additional identical ticket, selected options, the
// pay-what surcharge chosen by the payer, the date surcharge, minus
// discounts. Negative totals clamp to zero.
func computeTotalOwed(ticketPrice float64, additionals int, options, payWhat, surcharge, discount float64) float64 {
	total := ticketPrice*float64(1+additionals) + options + payWhat + surcharge - discount
	if total < 0 {
		return 0
	}
	return RoundToNearestCent(total)
}

// DateSurchargeFor resolves the applicable surcharge from an in-memory
// list, newest effective date first wins. Exported for callers that
// already hold the configured surcharges.
func DateSurchargeFor(surcharges []models.RegistrationSurcharge, ticketTier string, created time.Time) float64 {
	if ticketTier == models.TierWaitingList {
		return 0
	}
	amount := 0.0
	var latest time.Time
	for _, s := range surcharges {
		if s.Date.After(created) {
			continue
		}
		if latest.IsZero() || s.Date.After(latest) {
			latest = s.Date
			amount = s.Amount
		}
	}
	return amount
}
