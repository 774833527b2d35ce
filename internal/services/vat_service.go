package services

import (
	"database/sql"
	"log"

	"github.com/LoSkana/larpmanager-sub004/internal/config"
	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

// VATService allocates money payments between the taxable ticket
// portion and the options portion.
type VATService struct {
	db  Querier
	cfg config.Reader
}

func NewVATService(db Querier, cfg config.Reader) *VATService {
	return &VATService{db: db, cfg: cfg}
}

// SplitPayment annotates a money payment with its ticket/options VAT
// split and persists both fields onto the payment row. Funds fill the
// ticket cost first; whatever the payment covers beyond the remaining
// ticket cost is attributed to options. Leaves existing fields alone
// when VAT is disabled or the instrument is not money.
func (vs *VATService) SplitPayment(reg *models.Registration, payment *models.AccountingItemPayment) error {
	if !vs.cfg.Bool(config.KeyVatEnabled, false) {
		return nil
	}
	if payment.Method != models.MethodMoney {
		return nil
	}

	var priorPayments float64
	err := vs.db.QueryRow(`
		SELECT COALESCE(SUM(value), 0)
		FROM accounting_item_payments
		WHERE member_id = $1 AND run_id = $2 AND created < $3 AND hidden = false
	`, payment.MemberID, payment.RunID, payment.Created).Scan(&priorPayments)
	if err != nil {
		return err
	}

	var priorFees float64
	err = vs.db.QueryRow(`
		SELECT COALESCE(SUM(t.value), 0)
		FROM accounting_item_transactions t
		JOIN registrations r ON t.registration_id = r.id
		WHERE r.member_id = $1 AND r.run_id = $2 AND t.created < $3
	`, payment.MemberID, payment.RunID, payment.Created).Scan(&priorFees)
	if err != nil {
		return err
	}

	var ticketPrice float64
	if reg.TicketID != nil {
		err = vs.db.QueryRow(`
			SELECT price FROM tickets WHERE id = $1
		`, *reg.TicketID).Scan(&ticketPrice)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
	}

	var invoiceFees float64
	if payment.InvoiceID != nil {
		err = vs.db.QueryRow(`
			SELECT COALESCE(SUM(value), 0)
			FROM accounting_item_transactions
			WHERE invoice_id = $1
		`, *payment.InvoiceID).Scan(&invoiceFees)
		if err != nil {
			return err
		}
	}

	ticketTotal := reg.PayWhat + ticketPrice
	net := payment.Value - invoiceFees
	payment.VatTicket, payment.VatOptions = splitVAT(net, ticketTotal, priorPayments-priorFees)

	_, err = vs.db.Exec(`
		UPDATE accounting_item_payments
		SET vat_ticket = $1, vat_options = $2
		WHERE id = $3
	`, payment.VatTicket, payment.VatOptions, payment.ID)
	if err != nil {
		return err
	}

	log.Printf("[VAT] Payment %d split: ticket=%.2f options=%.2f", payment.ID, payment.VatTicket, payment.VatOptions)
	return nil
}

// splitVAT applies the first-paid-first rule: the ticket consumes funds
// before options. The two parts always sum to the net payment.
func splitVAT(netPayment, ticketTotal, previouslyPaid float64) (vatTicket, vatOptions float64) {
	remainingTicket := ticketTotal - previouslyPaid
	if remainingTicket < 0 {
		remainingTicket = 0
	}
	vatTicket = netPayment
	if remainingTicket < vatTicket {
		vatTicket = remainingTicket
	}
	vatOptions = netPayment - vatTicket
	return vatTicket, vatOptions
}
