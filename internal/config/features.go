package config

// Feature names that gate optional accounting breakdowns.
const (
	FeatureExpenses        = "expenses"
	FeatureOutflows        = "outflows"
	FeatureInflows         = "inflows"
	FeaturePayments        = "payments"
	FeatureTransactionFees = "transaction_fees"
	FeatureRefunds         = "refunds"
	FeatureTokens          = "tokens"
	FeatureCredits         = "credits"
	FeatureDiscounts       = "discounts"
	FeatureTheoretical     = "theoretical_total"
	FeatureOrganizationTax = "organization_tax"
)

// Features is the capability set enabled for an event or association,
// queried once per aggregation call.
type Features map[string]struct{}

// NewFeatures builds a capability set from enabled feature names.
func NewFeatures(names ...string) Features {
	f := make(Features, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

func (f Features) Has(name string) bool {
	_, ok := f[name]
	return ok
}
