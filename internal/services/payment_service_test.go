package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

func TestPaymentService_SumPayments(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewPaymentService(db)

	t.Run("groups by instrument and writes the map", func(t *testing.T) {
		reg := &models.Registration{ID: 9}

		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"payment_method", "sum"}).
				AddRow(models.MethodMoney, 80.0).
				AddRow(models.MethodToken, 20.0))

		total, err := service.SumPayments(reg)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, total)
		assert.Equal(t, 100.0, reg.TotalPaid)
		assert.Equal(t, 80.0, reg.PaymentsByMethod[models.MethodMoney])
		assert.Equal(t, 20.0, reg.PaymentsByMethod[models.MethodToken])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no payments yields zero", func(t *testing.T) {
		reg := &models.Registration{ID: 9}

		mock.ExpectQuery("FROM accounting_item_payments").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"payment_method", "sum"}))

		total, err := service.SumPayments(reg)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, total)
		assert.Empty(t, reg.PaymentsByMethod)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentService_SumUserBurdenTransactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewPaymentService(db)

	mock.ExpectQuery("FROM accounting_item_transactions").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(3.5))

	total, err := service.SumUserBurdenTransactions(9)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		name string
		owed float64
		paid float64
		want models.PaymentStatus
	}{
		{"nothing received", 100, 0, models.PaymentStatusNone},
		{"partially paid", 100, 40, models.PaymentStatusPartial},
		{"fully paid", 100, 100, models.PaymentStatusComplete},
		{"over-paid", 100, 120, models.PaymentStatusOverpaid},
		{"free registration untouched", 0, 0, models.PaymentStatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentStatusFor(tt.owed, tt.paid))
		})
	}
}
