package aggregates

import "github.com/google/uuid"

// Contract names a write boundary: the tables its writes touch inside one
// transaction and the lock namespace those writes serialize on.
type Contract struct {
	Name       string
	LockPrefix string
	Tables     []string
}

type Aggregate interface {
	Contract() Contract
}

// LockKey is the in-process lock key for one aggregate root.
func (c Contract) LockKey(id uuid.UUID) string {
	return c.LockPrefix + ":" + id.String()
}

// Op qualifies method with the aggregate name for logs and metrics.
func (c Contract) Op(method string) string {
	return c.Name + "." + method
}
