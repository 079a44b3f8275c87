package clock

import "time"

// Clock abstracts time.Now so services stamping approval_date,
// completed_at and payment_date stay testable.
type Clock interface {
	Now() time.Time
}

type utcClock struct{}

func New() Clock {
	return utcClock{}
}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
