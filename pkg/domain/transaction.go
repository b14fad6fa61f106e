package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger row recording one completed fund
// movement. Rows are only ever inserted, never updated or deleted.
type Transaction struct {
	ID       int64
	At       time.Time
	Amount   decimal.Decimal
	Sender   int64
	Receiver int64
}
