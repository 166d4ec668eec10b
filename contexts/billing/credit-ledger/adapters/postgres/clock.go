package postgresadapter

import "time"

// SystemClock stamps ledger rows in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
