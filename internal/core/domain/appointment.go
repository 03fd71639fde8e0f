package domain

import "time"

// Slot is the closed interval [StartAt, EndAt] an appointment occupies.
type Slot struct {
	StartAt time.Time
	EndAt   time.Time
}

// Overlaps reports whether s and o share at least one instant. Boundaries are
// inclusive: a slot ending at 12:00 overlaps one starting at 12:00.
func (s Slot) Overlaps(o Slot) bool {
	return !s.StartAt.After(o.EndAt) && !s.EndAt.Before(o.StartAt)
}

// Appointment belongs to exactly one user for its whole lifetime.
type Appointment struct {
	ID        string
	Type      string
	Notes     string
	StartAt   time.Time
	EndAt     time.Time
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// User is populated by list queries only.
	User *UserSummary
}

// Slot returns the interval the appointment occupies.
func (a *Appointment) Slot() Slot {
	return Slot{StartAt: a.StartAt, EndAt: a.EndAt}
}

// UserSummary is the owner projection embedded in appointment listings.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
