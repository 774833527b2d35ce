package services

import (
	"log"

	"github.com/LoSkana/larpmanager-sub004/internal/config"
)

// Breakdown names used as keys in a run report.
const (
	BreakdownExpenses        = "expenses"
	BreakdownOutflows        = "outflows"
	BreakdownInflows         = "inflows"
	BreakdownPayments        = "payments"
	BreakdownTransactionFees = "transaction_fees"
	BreakdownRefunds         = "refunds"
	BreakdownTokens          = "tokens"
	BreakdownCredits         = "credits"
	BreakdownDiscounts       = "discounts"
	BreakdownTheoretical     = "theoretical_total"
)

// BreakdownBucket is a per-kind sub-total within a breakdown.
type BreakdownBucket struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
	Name  string  `json:"name"`
}

// Breakdown is one categorised slice of a run's accounting items.
type Breakdown struct {
	Total       float64                     `json:"total"`
	Count       int                         `json:"count"`
	Buckets     map[string]*BreakdownBucket `json:"buckets"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
}

// RunReport is the categorised financial report for a single run.
type RunReport struct {
	RunID      int64                 `json:"run_id"`
	Breakdowns map[string]*Breakdown `json:"breakdowns"`
	Revenue    float64               `json:"revenue"`
	Costs      float64               `json:"costs"`
	Balance    float64               `json:"balance"`
	Tax        float64               `json:"tax"`
}

// breakdownDef declares one optional breakdown: the feature that
// enables it, a display name and description, and a query returning
// (value, kind) rows for the run.
type breakdownDef struct {
	key         string
	feature     string
	name        string
	description string
	query       string
}

// runBreakdowns is iterated in order instead of hard-coding one branch
// per feature, so adding a breakdown means adding an entry here.
var runBreakdowns = []breakdownDef{
	{
		key: BreakdownExpenses, feature: config.FeatureExpenses,
		name: "Expenses", description: "Approved organisation expenses",
		query: `SELECT value, category FROM accounting_item_expenses
			WHERE run_id = $1 AND approved = true`,
	},
	{
		key: BreakdownOutflows, feature: config.FeatureOutflows,
		name: "Outflows", description: "Money paid out for the run",
		query: `SELECT value, category FROM accounting_item_outflows
			WHERE run_id = $1`,
	},
	{
		key: BreakdownInflows, feature: config.FeatureInflows,
		name: "Inflows", description: "Money received outside registrations",
		query: `SELECT value, category FROM accounting_item_inflows
			WHERE run_id = $1`,
	},
	{
		key: BreakdownPayments, feature: config.FeaturePayments,
		name: "Payments", description: "Registration payments received",
		query: `SELECT p.value, p.payment_method FROM accounting_item_payments p
			JOIN registrations r ON p.registration_id = r.id
			WHERE r.run_id = $1 AND p.hidden = false`,
	},
	{
		key: BreakdownTransactionFees, feature: config.FeatureTransactionFees,
		name: "Transaction fees", description: "Payment processor fees",
		query: `SELECT t.value, CASE WHEN t.user_burden THEN 'payer' ELSE 'organisation' END
			FROM accounting_item_transactions t
			JOIN registrations r ON t.registration_id = r.id
			WHERE r.run_id = $1`,
	},
	{
		key: BreakdownRefunds, feature: config.FeatureRefunds,
		name: "Refunds", description: "Money returned to members",
		query: `SELECT value, kind FROM accounting_item_others
			WHERE run_id = $1 AND kind = 'refund' AND cancellation = false`,
	},
	{
		key: BreakdownTokens, feature: config.FeatureTokens,
		name: "Tokens", description: "Tokens issued for the run",
		query: `SELECT value, kind FROM accounting_item_others
			WHERE run_id = $1 AND kind = 'token' AND cancellation = false`,
	},
	{
		key: BreakdownCredits, feature: config.FeatureCredits,
		name: "Credits", description: "Credits issued for the run",
		query: `SELECT value, kind FROM accounting_item_others
			WHERE run_id = $1 AND kind = 'credit' AND cancellation = false`,
	},
	{
		key: BreakdownDiscounts, feature: config.FeatureDiscounts,
		name: "Discounts", description: "Discounts granted on registrations",
		query: `SELECT d.value, 'discount' FROM accounting_item_discounts d
			WHERE d.run_id = $1`,
	},
	{
		key: BreakdownTheoretical, feature: config.FeatureTheoretical,
		name: "Theoretical total", description: "Sum owed across active registrations",
		query: `SELECT total_owed, 'registration' FROM registrations
			WHERE run_id = $1 AND cancellation_date IS NULL`,
	},
}

// kindNames maps bucket kinds to display names.
var kindNames = map[string]string{
	"money":        "Money",
	"credit":       "Credit",
	"token":        "Token",
	"payer":        "Charged to payer",
	"organisation": "Charged to organisation",
	"refund":       "Refund",
	"discount":     "Discount",
	"registration": "Registration",
}

// RunAccountingService rolls a run's accounting items into a
// categorised report and updates the run's derived figures.
type RunAccountingService struct {
	db  Querier
	cfg config.Reader
}

func NewRunAccountingService(db Querier, cfg config.Reader) *RunAccountingService {
	return &RunAccountingService{db: db, cfg: cfg}
}

// ComputeRun builds the report for a run from the breakdowns enabled by
// the feature set, derives revenue, costs, balance and tax, and
// persists them onto the run unless dryRun is set.
func (rs *RunAccountingService) ComputeRun(runID int64, features config.Features, dryRun bool) (*RunReport, error) {
	report := &RunReport{
		RunID:      runID,
		Breakdowns: map[string]*Breakdown{},
	}

	for _, def := range runBreakdowns {
		if !features.Has(def.feature) {
			continue
		}
		breakdown, err := rs.reduce(def, runID)
		if err != nil {
			return nil, err
		}
		report.Breakdowns[def.key] = breakdown
	}

	payments := report.total(BreakdownPayments)
	inflows := report.total(BreakdownInflows)
	fees := report.total(BreakdownTransactionFees)
	refunds := report.total(BreakdownRefunds)
	outflows := report.total(BreakdownOutflows)
	expenses := report.total(BreakdownExpenses)
	tokens := report.total(BreakdownTokens)
	credits := report.total(BreakdownCredits)

	report.Revenue = payments + inflows - (fees + refunds)
	if report.Revenue < 0 {
		report.Revenue = 0
	}
	report.Costs = outflows + expenses + tokens + credits
	report.Balance = report.Revenue - report.Costs

	if features.Has(config.FeatureOrganizationTax) {
		taxPercent, err := rs.cfg.Float(config.KeyTaxPercent, 10)
		if err != nil {
			return nil, err
		}
		report.Tax = report.Revenue * taxPercent / 100
	}

	if dryRun {
		return report, nil
	}

	_, err := rs.db.Exec(`
		UPDATE runs SET revenue = $1, costs = $2, balance = $3, tax = $4
		WHERE id = $5
	`, report.Revenue, report.Costs, report.Balance, report.Tax, runID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ACCOUNTING] Run %d: revenue=%.2f costs=%.2f balance=%.2f tax=%.2f",
		runID, report.Revenue, report.Costs, report.Balance, report.Tax)
	return report, nil
}

// reduce runs a breakdown query and folds its rows into a total, a
// count and per-kind buckets.
func (rs *RunAccountingService) reduce(def breakdownDef, runID int64) (*Breakdown, error) {
	rows, err := rs.db.Query(def.query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := &Breakdown{
		Buckets:     map[string]*BreakdownBucket{},
		Name:        def.name,
		Description: def.description,
	}
	for rows.Next() {
		var value float64
		var kind string
		if err := rows.Scan(&value, &kind); err != nil {
			return nil, err
		}
		breakdown.Total += value
		breakdown.Count++

		bucket, ok := breakdown.Buckets[kind]
		if !ok {
			name := kindNames[kind]
			if name == "" {
				name = kind
			}
			bucket = &BreakdownBucket{Name: name}
			breakdown.Buckets[kind] = bucket
		}
		bucket.Total += value
		bucket.Count++
	}
	return breakdown, rows.Err()
}

// total returns a breakdown's total, zero when the breakdown was not
// enabled.
func (r *RunReport) total(key string) float64 {
	if b, ok := r.Breakdowns[key]; ok {
		return b.Total
	}
	return 0
}
