package repo

import "time"

type VerificationFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}
