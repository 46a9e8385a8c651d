package chrono

import "time"

// TimeAPI is what anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime reads the local system clock.
type StandardTime struct{}

func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now()
}

// FixedTime always returns the same instant.
type FixedTime time.Time

func (f FixedTime) Now() time.Time {
	return time.Time(f)
}
