package services

import (
	"database/sql"
	"log"

	"github.com/LoSkana/larpmanager-sub004/internal/config"
	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

// RegistrationService recomputes a registration's derived fields. The
// surrounding application calls RecomputeRegistration after any
// mutation to payments, discounts or transactions; the whole recompute
// runs inside one transaction with the row locked, so retries only ever
// overwrite with the same result.
type RegistrationService struct {
	db        *sql.DB
	cfg       config.Reader
	validator *ValidationHelper
}

func NewRegistrationService(db *sql.DB, cfg config.Reader) *RegistrationService {
	return &RegistrationService{
		db:        db,
		cfg:       cfg,
		validator: NewValidationHelper(),
	}
}

// RecomputeRegistration recomputes total owed, total paid, payment
// status, and the next quota and deadline for one registration, then
// overwrites the derived fields.
func (rs *RegistrationService) RecomputeRegistration(registrationID int64) (*models.Registration, error) {
	tx, err := rs.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	reg, run, err := fetchRegistrationForUpdate(tx, registrationID)
	if err != nil {
		return nil, err
	}

	if err := rs.validator.ValidateStruct(reg); err != nil {
		return nil, err
	}

	fees := NewFeeService(tx)
	payments := NewPaymentService(tx)
	schedule := NewScheduleService(tx, rs.cfg)

	reg.TotalOwed, err = fees.TotalOwed(reg)
	if err != nil {
		return nil, err
	}

	if _, err := payments.SumPayments(reg); err != nil {
		return nil, err
	}

	reg.Status = PaymentStatusFor(reg.TotalOwed, reg.TotalPaid)

	reg.Quota, reg.Deadline, err = schedule.NextDue(reg, run)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE registrations
		SET total_owed = $1, total_paid = $2, payment_status = $3, quota = $4, deadline = $5, surcharge = $6
		WHERE id = $7
	`, reg.TotalOwed, reg.TotalPaid, reg.Status, reg.Quota, reg.Deadline, reg.Surcharge, reg.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Printf("[RECOMPUTE] Registration %d: owed=%.2f paid=%.2f status=%s quota=%.2f deadline=%d",
		reg.ID, reg.TotalOwed, reg.TotalPaid, reg.Status, reg.Quota, reg.Deadline)
	return reg, nil
}

func fetchRegistrationForUpdate(tx Querier, registrationID int64) (*models.Registration, *models.Run, error) {
	reg := &models.Registration{}
	err := tx.QueryRow(`
		SELECT id, member_id, run_id, ticket_id, additionals, pay_what, quotas,
		       redeem_code, cancellation_date, created
		FROM registrations
		WHERE id = $1
		FOR UPDATE
	`, registrationID).Scan(
		&reg.ID, &reg.MemberID, &reg.RunID, &reg.TicketID, &reg.Additionals,
		&reg.PayWhat, &reg.Quotas, &reg.RedeemCode, &reg.CancellationDate, &reg.Created,
	)
	if err != nil {
		return nil, nil, err
	}

	run := &models.Run{}
	err = tx.QueryRow(`
		SELECT id, event_id, association_id, status, start
		FROM runs
		WHERE id = $1
	`, reg.RunID).Scan(&run.ID, &run.EventID, &run.AssociationID, &run.Status, &run.Start)
	if err != nil {
		return nil, nil, err
	}

	return reg, run, nil
}
