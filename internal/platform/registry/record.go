// Package registry implements the master-detail workflow shared by every
// collection of the suite: one repository per collection, list filtering,
// create/edit forms with schema validation, status toggling and guarded
// deletion, all reported through a single command Result.
package registry

import (
	"time"

	"github.com/google/uuid"
)

// Record holds the fields every collection item carries. Domain models embed
// it and add their own fields.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Label     string    `json:"label"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) GetRecord() *Record { return r }

// Entity is implemented by pointers to domain models embedding Record.
// Categories reports the values of the categorical fields the list screen
// filters on, keyed by query parameter name.
type Entity interface {
	GetRecord() *Record
	Categories() map[string]string
}
