package models

import (
	"time"
)

// Membership holds a member's virtual currency balances within an
// association. Tokens and credits are liabilities of the association.
type Membership struct {
	ID            int64      `json:"id" db:"id"`
	MemberID      int64      `json:"member_id" db:"member_id"`
	AssociationID int64      `json:"association_id" db:"association_id"`
	MemberName    string     `json:"member_name" db:"member_name"`
	Tokens        float64    `json:"tokens" db:"tokens"`
	Credit        float64    `json:"credit" db:"credit"`
	Approved      *time.Time `json:"approved" db:"approved"`
}
