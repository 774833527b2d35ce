package services

import "database/sql"

// Querier is the slice of database/sql shared by *sql.DB and *sql.Tx.
// Services accept it so a full registration recompute can run its reads
// and writes inside the caller's transaction.
type Querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}
