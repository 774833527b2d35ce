package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

// ErrInvoiceNotFound is returned when a gateway callback references an
// unknown invoice code. The caller handles admin notification.
var ErrInvoiceNotFound = errors.New("invoice not found")

// RecomputeQueue is the Redis list the surrounding application drains
// to recompute registrations after money arrives.
const RecomputeQueue = "accounting_recompute"

// InvoiceService manages the payment invoice lifecycle:
// created -> submitted -> confirmed, or created -> checked when money
// is verified manually. Confirmed and checked are terminal.
type InvoiceService struct {
	db        Querier
	redis     *redis.Client
	validator *ValidationHelper
	now       func() time.Time
}

func NewInvoiceService(db Querier, redisClient *redis.Client) *InvoiceService {
	return &InvoiceService{
		db:        db,
		redis:     redisClient,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

// Create stores a new invoice in the created state, generating its code
// when the caller supplies none.
func (is *InvoiceService) Create(inv *models.PaymentInvoice) error {
	if inv.Code == "" {
		inv.Code = uuid.New().String()
	}
	inv.Status = models.InvoiceStatusCreated
	inv.CreatedAt = is.now()

	if err := is.validator.ValidateStruct(inv); err != nil {
		return err
	}

	return is.db.QueryRow(`
		INSERT INTO payment_invoices (code, member_id, registration_id, amount, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, inv.Code, inv.MemberID, inv.RegistrationID, inv.Amount, inv.Method, inv.Status, inv.CreatedAt).Scan(&inv.ID)
}

// Submit moves a created invoice into the gateway flow.
func (is *InvoiceService) Submit(code string) error {
	inv, err := is.fetch(code)
	if err != nil {
		return err
	}
	if inv.Status != models.InvoiceStatusCreated {
		return fmt.Errorf("invoice %s: cannot submit from status %s", code, inv.Status)
	}

	_, err = is.db.Exec(`
		UPDATE payment_invoices SET status = $1 WHERE id = $2
	`, models.InvoiceStatusSubmitted, inv.ID)
	return err
}

// ConfirmPayment handles a gateway "money received" callback. Repeated
// notifications for an already-terminal invoice are a success no-op, so
// at-least-once delivery is safe.
func (is *InvoiceService) ConfirmPayment(code string) error {
	return is.settle(code, models.InvoiceStatusConfirmed)
}

// MarkChecked records that money was physically received and verified
// manually. Idempotent like ConfirmPayment.
func (is *InvoiceService) MarkChecked(code string) error {
	return is.settle(code, models.InvoiceStatusChecked)
}

func (is *InvoiceService) settle(code, status string) error {
	inv, err := is.fetch(code)
	if err != nil {
		return err
	}
	if inv.Terminal() {
		log.Printf("[INVOICE] Duplicate settlement for %s, status: %s", code, inv.Status)
		return nil
	}

	_, err = is.db.Exec(`
		UPDATE payment_invoices SET status = $1 WHERE id = $2
	`, status, inv.ID)
	if err != nil {
		return err
	}

	is.queueRecompute(inv.RegistrationID)
	log.Printf("[INVOICE] Invoice %s settled as %s", code, status)
	return nil
}

func (is *InvoiceService) fetch(code string) (*models.PaymentInvoice, error) {
	inv := &models.PaymentInvoice{Code: code}
	err := is.db.QueryRow(`
		SELECT id, member_id, registration_id, amount, payment_method, status, created_at
		FROM payment_invoices
		WHERE code = $1
	`, code).Scan(&inv.ID, &inv.MemberID, &inv.RegistrationID, &inv.Amount, &inv.Method, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// queueRecompute pushes the registration onto the recompute queue. A
// nil client means queueing is disabled.
func (is *InvoiceService) queueRecompute(registrationID int64) {
	if is.redis == nil {
		return
	}
	err := is.redis.RPush(context.Background(), RecomputeQueue, strconv.FormatInt(registrationID, 10)).Err()
	if err != nil {
		log.Printf("[INVOICE] Failed to queue recompute for registration %d: %v", registrationID, err)
	}
}
