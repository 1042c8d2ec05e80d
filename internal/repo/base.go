package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is the shared storage handle embedded by the domain repositories.
// It owns the gorm connection so repositories only deal with queries.
type Base struct {
	conn *gorm.DB
}

func NewBase(conn *gorm.DB) Base {
	return Base{conn: conn}
}

// DB binds the connection to ctx. A nil ctx returns the bare handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.conn
	}
	return b.conn.WithContext(ctx)
}

// Rebind returns a Base backed by tx, for transaction-scoped repositories.
func (b Base) Rebind(tx *gorm.DB) Base {
	return Base{conn: tx}
}
