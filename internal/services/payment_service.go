package services

import (
	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

// PaymentService aggregates settled payments and processor fees per
// registration.
type PaymentService struct {
	db Querier
}

func NewPaymentService(db Querier) *PaymentService {
	return &PaymentService{db: db}
}

// SumPayments sums non-hidden payments for the registration grouped by
// instrument. It writes the per-instrument map onto the registration
// (consumed by export and VAT code) and returns the grand total.
func (ps *PaymentService) SumPayments(reg *models.Registration) (float64, error) {
	rows, err := ps.db.Query(`
		SELECT payment_method, COALESCE(SUM(value), 0)
		FROM accounting_item_payments
		WHERE registration_id = $1 AND hidden = false
		GROUP BY payment_method
	`, reg.ID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	byMethod := map[string]float64{}
	total := 0.0
	for rows.Next() {
		var method string
		var sum float64
		if err := rows.Scan(&method, &sum); err != nil {
			return 0, err
		}
		byMethod[method] = sum
		total += sum
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	reg.PaymentsByMethod = byMethod
	reg.TotalPaid = total
	return total, nil
}

// SumUserBurdenTransactions sums processor fees charged to the payer.
func (ps *PaymentService) SumUserBurdenTransactions(registrationID int64) (float64, error) {
	var total float64
	err := ps.db.QueryRow(`
		SELECT COALESCE(SUM(value), 0)
		FROM accounting_item_transactions
		WHERE registration_id = $1 AND user_burden = true
	`, registrationID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// PaymentStatusFor classifies a registration by what it owes versus
// what has been received.
func PaymentStatusFor(totalOwed, totalPaid float64) models.PaymentStatus {
	switch {
	case totalPaid == 0:
		return models.PaymentStatusNone
	case totalPaid == totalOwed:
		return models.PaymentStatusComplete
	case totalPaid > totalOwed:
		return models.PaymentStatusOverpaid
	default:
		return models.PaymentStatusPartial
	}
}
