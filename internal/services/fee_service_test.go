package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

func TestComputeTotalOwed(t *testing.T) {
	t.Run("additionals multiply the ticket price", func(t *testing.T) {
		total := computeTotalOwed(50, 2, 0, 0, 0, 0)
		assert.Equal(t, 150.0, total)
	})

	t.Run("discount reduces the total", func(t *testing.T) {
		total := computeTotalOwed(100, 0, 0, 0, 0, 20)
		assert.Equal(t, 80.0, total)
	})

	t.Run("total never goes negative", func(t *testing.T) {
		total := computeTotalOwed(50, 0, 0, 0, 0, 100)
		assert.Equal(t, 0.0, total)
	})

	t.Run("options, pay-what and surcharge add up", func(t *testing.T) {
		total := computeTotalOwed(40, 0, 15, 10, 5, 0)
		assert.Equal(t, 70.0, total)
	})
}

func TestFeeService_TotalOwed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewFeeService(db)
	ticketID := int64(7)

	t.Run("ticket with two additionals", func(t *testing.T) {
		reg := &models.Registration{ID: 1, MemberID: 2, RunID: 3, TicketID: &ticketID, Additionals: 2, Created: time.Now()}

		mock.ExpectQuery("SELECT price, tier FROM tickets").
			WithArgs(ticketID).
			WillReturnRows(sqlmock.NewRows([]string{"price", "tier"}).AddRow(50.0, "standard"))
		mock.ExpectQuery("FROM registration_options").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("FROM accounting_item_discounts").
			WithArgs(reg.MemberID, reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("SELECT event_id FROM runs").
			WithArgs(reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(4)))
		mock.ExpectQuery("FROM registration_surcharges").
			WillReturnError(sql.ErrNoRows)

		total, err := service.TotalOwed(reg)
		assert.NoError(t, err)
		assert.Equal(t, 150.0, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("discount applied for regular registration", func(t *testing.T) {
		reg := &models.Registration{ID: 1, MemberID: 2, RunID: 3, TicketID: &ticketID, Created: time.Now()}

		mock.ExpectQuery("SELECT price, tier FROM tickets").
			WithArgs(ticketID).
			WillReturnRows(sqlmock.NewRows([]string{"price", "tier"}).AddRow(100.0, "standard"))
		mock.ExpectQuery("FROM registration_options").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("FROM accounting_item_discounts").
			WithArgs(reg.MemberID, reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(20.0))
		mock.ExpectQuery("SELECT event_id FROM runs").
			WithArgs(reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(4)))
		mock.ExpectQuery("FROM registration_surcharges").
			WillReturnError(sql.ErrNoRows)

		total, err := service.TotalOwed(reg)
		assert.NoError(t, err)
		assert.Equal(t, 80.0, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gift registration ignores discounts", func(t *testing.T) {
		reg := &models.Registration{ID: 1, MemberID: 2, RunID: 3, TicketID: &ticketID, RedeemCode: "GIFT-1", Created: time.Now()}

		mock.ExpectQuery("SELECT price, tier FROM tickets").
			WithArgs(ticketID).
			WillReturnRows(sqlmock.NewRows([]string{"price", "tier"}).AddRow(100.0, "standard"))
		mock.ExpectQuery("FROM registration_options").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("SELECT event_id FROM runs").
			WithArgs(reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(4)))
		mock.ExpectQuery("FROM registration_surcharges").
			WillReturnError(sql.ErrNoRows)

		total, err := service.TotalOwed(reg)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date surcharge is stored on the registration", func(t *testing.T) {
		reg := &models.Registration{ID: 1, MemberID: 2, RunID: 3, TicketID: &ticketID, Created: time.Now()}

		mock.ExpectQuery("SELECT price, tier FROM tickets").
			WithArgs(ticketID).
			WillReturnRows(sqlmock.NewRows([]string{"price", "tier"}).AddRow(100.0, "standard"))
		mock.ExpectQuery("FROM registration_options").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("FROM accounting_item_discounts").
			WithArgs(reg.MemberID, reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("SELECT event_id FROM runs").
			WithArgs(reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(4)))
		mock.ExpectQuery("FROM registration_surcharges").
			WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(15.0))

		total, err := service.TotalOwed(reg)
		assert.NoError(t, err)
		assert.Equal(t, 115.0, total)
		assert.Equal(t, 15.0, reg.Surcharge)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ticket means only extras are owed", func(t *testing.T) {
		reg := &models.Registration{ID: 1, MemberID: 2, RunID: 3, PayWhat: 25, Created: time.Now()}

		mock.ExpectQuery("FROM registration_options").
			WithArgs(reg.ID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(10.0))
		mock.ExpectQuery("FROM accounting_item_discounts").
			WithArgs(reg.MemberID, reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
		mock.ExpectQuery("SELECT event_id FROM runs").
			WithArgs(reg.RunID).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(4)))
		mock.ExpectQuery("FROM registration_surcharges").
			WillReturnError(sql.ErrNoRows)

		total, err := service.TotalOwed(reg)
		assert.NoError(t, err)
		assert.Equal(t, 35.0, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDateSurchargeFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	surcharges := []models.RegistrationSurcharge{
		{Amount: 5, Date: now.AddDate(0, -2, 0)},
		{Amount: 10, Date: now.AddDate(0, -1, 0)},
		{Amount: 20, Date: now.AddDate(0, 1, 0)},
	}

	t.Run("latest effective surcharge wins", func(t *testing.T) {
		assert.Equal(t, 10.0, DateSurchargeFor(surcharges, "standard", now))
	})

	t.Run("future surcharges do not apply", func(t *testing.T) {
		assert.Equal(t, 5.0, DateSurchargeFor(surcharges, "standard", now.AddDate(0, -1, -5)))
	})

	t.Run("waiting list pays no surcharge", func(t *testing.T) {
		assert.Equal(t, 0.0, DateSurchargeFor(surcharges, models.TierWaitingList, now))
	})

	t.Run("no configured surcharges", func(t *testing.T) {
		assert.Equal(t, 0.0, DateSurchargeFor(nil, "standard", now))
	})
}
