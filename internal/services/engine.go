package services

import (
	"database/sql"

	"github.com/go-redis/redis/v8"

	"github.com/LoSkana/larpmanager-sub004/internal/config"
	"github.com/LoSkana/larpmanager-sub004/internal/database"
)

// Engine bundles the accounting services over shared connections. It is
// the entry point for embedding applications: NewEngine dials postgres
// and redis from viper configuration, NewEngineWith composes the
// services over handles the caller already holds.
type Engine struct {
	Registrations *RegistrationService
	Invoices      *InvoiceService
	Runs          *RunAccountingService
	Associations  *AssociationService

	db    *sql.DB
	redis *redis.Client
}

func NewEngine() (*Engine, error) {
	db, err := database.InitDB()
	if err != nil {
		return nil, err
	}
	return NewEngineWith(db, database.InitRedis(), config.NewViperReader()), nil
}

func NewEngineWith(db *sql.DB, redisClient *redis.Client, cfg config.Reader) *Engine {
	return &Engine{
		Registrations: NewRegistrationService(db, cfg),
		Invoices:      NewInvoiceService(db, redisClient),
		Runs:          NewRunAccountingService(db, cfg),
		Associations:  NewAssociationService(db),
		db:            db,
		redis:         redisClient,
	}
}

// Close releases the database and redis connections.
func (e *Engine) Close() error {
	if e.redis != nil {
		if err := e.redis.Close(); err != nil {
			return err
		}
	}
	return e.db.Close()
}
