package specification

import "gorm.io/gorm"

// ByEmailAddress matches requests submitted by a user.
type ByEmailAddress struct {
	Email string
}

func (s ByEmailAddress) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email_address = ?", s.Email)
}

// NewestFirst orders by submission time, most recent first. Ties fall back
// to the id so pages are stable.
func NewestFirst() Specification {
	return OrderBy{Field: "timestamp", Desc: true}
}
