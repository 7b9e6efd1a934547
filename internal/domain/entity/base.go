package entity

import "time"

// EntityBase carries the identity and audit fields shared by aggregates.
// It is embedded rather than inherited; mutation happens through the
// owning entity's methods.
type EntityBase struct {
	ID             int
	CreatedAt      time.Time
	IsDeleted      bool
	LastModifiedAt *time.Time
}

// Modify stamps the last-modified timestamp. LastModifiedAt is non-nil
// exactly when the record has been mutated at least once.
func (e *EntityBase) Modify() {
	now := time.Now()
	e.LastModifiedAt = &now
}
