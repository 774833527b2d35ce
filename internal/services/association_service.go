package services

import (
	"log"
	"sort"
	"time"

	"github.com/LoSkana/larpmanager-sub004/internal/models"
	"github.com/google/uuid"
)

// FlowSummary holds monetary flows for an association within a date
// window.
type FlowSummary struct {
	ExecInflows     float64 `json:"exec_inflows"`
	ExecOutflows    float64 `json:"exec_outflows"`
	MembershipFees  float64 `json:"membership_fees"`
	Donations       float64 `json:"donations"`
	Collections     float64 `json:"collections"`
	Inflows         float64 `json:"inflows"`
	Outflows        float64 `json:"outflows"`
	CashPayments    float64 `json:"cash_payments"`
	TransactionFees float64 `json:"transaction_fees"`
	Refunds         float64 `json:"refunds"`
	Incoming        float64 `json:"incoming"`
	Outgoing        float64 `json:"outgoing"`
}

// MemberBalance is one member's outstanding virtual currency, shown in
// the association report.
type MemberBalance struct {
	MemberName string  `json:"member_name"`
	Tokens     float64 `json:"tokens"`
	Credit     float64 `json:"credit"`
}

// AssociationReport is the association-wide financial rollup.
type AssociationReport struct {
	AssociationID      int64           `json:"association_id"`
	TokensOutstanding  float64         `json:"tokens_outstanding"`
	CreditsOutstanding float64         `json:"credits_outstanding"`
	MemberBalances     []MemberBalance `json:"member_balances"`
	RunBalanceSum      float64         `json:"run_balance_sum"`
	GlobalSum          float64         `json:"global_sum"`
	BankSum            float64         `json:"bank_sum"`
	Years              []int           `json:"years"`
}

// AssociationService rolls member balances, run balances and monetary
// flows up into association-wide figures.
type AssociationService struct {
	db  Querier
	now func() time.Time
}

func NewAssociationService(db Querier) *AssociationService {
	return &AssociationService{db: db, now: time.Now}
}

// flowQueries maps FlowSummary fields to their window-scoped sums.
var flowQueries = []struct {
	assign func(*FlowSummary, float64)
	query  string
}{
	{func(f *FlowSummary, v float64) { f.ExecInflows = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_inflows
		WHERE association_id = $1 AND run_id IS NULL AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.ExecOutflows = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_outflows
		WHERE association_id = $1 AND run_id IS NULL AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.MembershipFees = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_memberships
		WHERE association_id = $1 AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.Donations = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_donations
		WHERE association_id = $1 AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.Collections = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_collections
		WHERE association_id = $1 AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.Inflows = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_inflows
		WHERE association_id = $1 AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.Outflows = v },
		`SELECT COALESCE(SUM(value), 0) FROM accounting_item_outflows
		WHERE association_id = $1 AND created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.CashPayments = v },
		`SELECT COALESCE(SUM(p.value), 0) FROM accounting_item_payments p
		JOIN runs r ON p.run_id = r.id
		WHERE r.association_id = $1 AND p.payment_method = 'money'
		AND p.hidden = false AND p.created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.TransactionFees = v },
		`SELECT COALESCE(SUM(t.value), 0) FROM accounting_item_transactions t
		JOIN registrations reg ON t.registration_id = reg.id
		JOIN runs r ON reg.run_id = r.id
		WHERE r.association_id = $1 AND t.created BETWEEN $2 AND $3`},
	{func(f *FlowSummary, v float64) { f.Refunds = v },
		`SELECT COALESCE(SUM(o.value), 0) FROM accounting_item_others o
		JOIN runs r ON o.run_id = r.id
		WHERE r.association_id = $1 AND o.kind = 'refund'
		AND o.cancellation = false AND o.created BETWEEN $2 AND $3`},
}

// FlowSummaryWindow sums the association's monetary flows inside
// [start, end]. Zero times default to all time.
func (as *AssociationService) FlowSummaryWindow(associationID int64, start, end time.Time) (*FlowSummary, error) {
	if end.IsZero() {
		end = as.now()
	}

	summary := &FlowSummary{}
	for _, fq := range flowQueries {
		var value float64
		if err := as.db.QueryRow(fq.query, associationID, start, end).Scan(&value); err != nil {
			return nil, err
		}
		fq.assign(summary, value)
	}

	summary.Incoming = summary.Inflows + summary.MembershipFees + summary.Donations +
		summary.Collections + summary.CashPayments - summary.TransactionFees
	summary.Outgoing = summary.Outflows + summary.Refunds
	return summary, nil
}

// GlobalRollup computes the association-wide summary: outstanding
// token/credit liabilities, completed-run balances, global and bank
// sums, and the calendar years covered by the association's life.
func (as *AssociationService) GlobalRollup(associationID int64) (*AssociationReport, error) {
	report := &AssociationReport{AssociationID: associationID}

	rows, err := as.db.Query(`
		SELECT member_name, tokens, credit FROM memberships
		WHERE association_id = $1 AND (tokens <> 0 OR credit <> 0)
	`, associationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var mb MemberBalance
		if err := rows.Scan(&mb.MemberName, &mb.Tokens, &mb.Credit); err != nil {
			return nil, err
		}
		report.TokensOutstanding += mb.Tokens
		report.CreditsOutstanding += mb.Credit
		report.MemberBalances = append(report.MemberBalances, mb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.MemberBalances, func(i, j int) bool {
		a, b := report.MemberBalances[i], report.MemberBalances[j]
		if a.Credit != b.Credit {
			return a.Credit > b.Credit
		}
		return a.Tokens > b.Tokens
	})

	runRows, err := as.db.Query(`
		SELECT status, balance FROM runs
		WHERE association_id = $1 AND status NOT IN ('draft', 'cancelled')
	`, associationID)
	if err != nil {
		return nil, err
	}
	defer runRows.Close()

	for runRows.Next() {
		var status string
		var balance float64
		if err := runRows.Scan(&status, &balance); err != nil {
			return nil, err
		}
		if status == models.RunStatusDone {
			report.RunBalanceSum += balance
		}
	}
	if err := runRows.Err(); err != nil {
		return nil, err
	}

	flows, err := as.FlowSummaryWindow(associationID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	report.GlobalSum = (report.RunBalanceSum + flows.MembershipFees + flows.Donations + flows.ExecInflows) -
		(flows.ExecOutflows + report.TokensOutstanding)
	report.BankSum = (flows.CashPayments + flows.MembershipFees + flows.Donations + flows.Inflows) -
		(flows.Outflows + flows.TransactionFees + flows.Refunds)

	var created time.Time
	if err := as.db.QueryRow(`
		SELECT created FROM associations WHERE id = $1
	`, associationID).Scan(&created); err != nil {
		return nil, err
	}
	for year := created.Year(); year <= as.now().Year(); year++ {
		report.Years = append(report.Years, year)
	}

	return report, nil
}

// CheckAccounting computes the global rollup and appends an immutable
// RecordAccounting snapshot. Snapshots are never mutated afterwards.
func (as *AssociationService) CheckAccounting(associationID int64) (*models.RecordAccounting, error) {
	report, err := as.GlobalRollup(associationID)
	if err != nil {
		return nil, err
	}

	record := &models.RecordAccounting{
		ID:            uuid.New().String(),
		AssociationID: associationID,
		GlobalSum:     report.GlobalSum,
		BankSum:       report.BankSum,
		CreatedAt:     as.now(),
	}

	_, err = as.db.Exec(`
		INSERT INTO record_accountings (id, association_id, run_id, global_sum, bank_sum, created_at)
		VALUES ($1, $2, NULL, $3, $4, $5)
	`, record.ID, record.AssociationID, record.GlobalSum, record.BankSum, record.CreatedAt)
	if err != nil {
		return nil, err
	}

	log.Printf("[ACCOUNTING] Association %d snapshot: global=%.2f bank=%.2f",
		associationID, record.GlobalSum, record.BankSum)
	return record, nil
}
