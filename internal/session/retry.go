package session

// RetryPolicy bounds how often a soft-validated field (name, email, date)
// is re-prompted before the raw input is accepted as-is. Accepting bad
// input after the bound keeps the conversation moving at the cost of
// occasionally letting a malformed value into the CRM.
type RetryPolicy struct {
	MaxAttempts int
}

// DefaultRetryPolicy re-prompts once before giving up.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 1}

// Exhausted reports whether the attempt count has reached the bound.
func (p RetryPolicy) Exhausted(attempts int) bool {
	max := p.MaxAttempts
	if max < 0 {
		max = 0
	}
	return attempts >= max
}
