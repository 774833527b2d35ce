package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/LoSkana/larpmanager-sub004/internal/config"
)

func TestRunAccountingService_ComputeRun(t *testing.T) {
	runID := int64(7)

	t.Run("full feature set derives revenue, costs and tax", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewRunAccountingService(db, config.StaticReader{})
		features := config.NewFeatures(
			config.FeatureExpenses, config.FeatureOutflows, config.FeatureInflows,
			config.FeaturePayments, config.FeatureTransactionFees, config.FeatureRefunds,
			config.FeatureTokens, config.FeatureCredits, config.FeatureDiscounts,
			config.FeatureTheoretical, config.FeatureOrganizationTax,
		)

		mock.ExpectQuery("FROM accounting_item_expenses").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(30.0, "props").AddRow(20.0, "venue"))
		mock.ExpectQuery("FROM accounting_item_outflows").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(50.0, "venue"))
		mock.ExpectQuery("FROM accounting_item_inflows").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(40.0, "sponsor"))
		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(200.0, "money").AddRow(100.0, "money").AddRow(50.0, "token"))
		mock.ExpectQuery("FROM accounting_item_transactions").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(10.0, "organisation"))
		mock.ExpectQuery("kind = 'refund'").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(30.0, "refund"))
		mock.ExpectQuery("kind = 'token'").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(15.0, "token"))
		mock.ExpectQuery("kind = 'credit'").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(25.0, "credit"))
		mock.ExpectQuery("FROM accounting_item_discounts").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(10.0, "discount"))
		mock.ExpectQuery("FROM registrations").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(350.0, "registration").AddRow(120.0, "registration"))
		mock.ExpectExec("UPDATE runs").
			WithArgs(350.0, 110.0, 240.0, 35.0, runID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		report, err := service.ComputeRun(runID, features, false)
		assert.NoError(t, err)

		// revenue = 300 payments + 40 inflows + 50 token payments
		// - 10 fees - 30 refunds
		assert.Equal(t, 350.0, report.Revenue)
		assert.Equal(t, 110.0, report.Costs)
		assert.Equal(t, 240.0, report.Balance)
		assert.Equal(t, 35.0, report.Tax)
		assert.Equal(t, report.Revenue-report.Costs, report.Balance)

		payments := report.Breakdowns[BreakdownPayments]
		assert.Equal(t, 350.0, payments.Total)
		assert.Equal(t, 3, payments.Count)
		assert.Equal(t, 300.0, payments.Buckets["money"].Total)
		assert.Equal(t, 2, payments.Buckets["money"].Count)
		assert.Equal(t, "Money", payments.Buckets["money"].Name)
		assert.Equal(t, 470.0, report.Breakdowns[BreakdownTheoretical].Total)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disabled features are never queried", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewRunAccountingService(db, config.StaticReader{})
		features := config.NewFeatures(config.FeaturePayments)

		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(100.0, "money"))
		mock.ExpectExec("UPDATE runs").
			WithArgs(100.0, 0.0, 100.0, 0.0, runID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		report, err := service.ComputeRun(runID, features, false)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, report.Revenue)
		assert.Equal(t, 0.0, report.Tax)
		assert.Len(t, report.Breakdowns, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("revenue clamps at zero when fees exceed income", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewRunAccountingService(db, config.StaticReader{})
		features := config.NewFeatures(config.FeaturePayments, config.FeatureRefunds)

		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(20.0, "money"))
		mock.ExpectQuery("kind = 'refund'").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(50.0, "refund"))
		mock.ExpectExec("UPDATE runs").
			WithArgs(0.0, 0.0, 0.0, 0.0, runID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		report, err := service.ComputeRun(runID, features, false)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, report.Revenue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("configured tax rate overrides the default", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewRunAccountingService(db, config.StaticReader{config.KeyTaxPercent: 25.0})
		features := config.NewFeatures(config.FeaturePayments, config.FeatureOrganizationTax)

		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(200.0, "money"))
		mock.ExpectExec("UPDATE runs").
			WithArgs(200.0, 0.0, 200.0, 50.0, runID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		report, err := service.ComputeRun(runID, features, false)
		assert.NoError(t, err)
		assert.Equal(t, 50.0, report.Tax)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("dry run leaves the database untouched", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewRunAccountingService(db, config.StaticReader{})
		features := config.NewFeatures(config.FeaturePayments)

		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(runID).
			WillReturnRows(sqlmock.NewRows([]string{"value", "kind"}).
				AddRow(100.0, "money"))

		report, err := service.ComputeRun(runID, features, true)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, report.Revenue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
