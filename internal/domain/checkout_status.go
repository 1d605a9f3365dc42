package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "IDLE"
	CheckoutStatusSubmitting CheckoutStatus = "SUBMITTING"
	CheckoutStatusSucceeded  CheckoutStatus = "SUCCEEDED"
	CheckoutStatusFailed     CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSucceeded || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:       {CheckoutStatusSubmitting},
	CheckoutStatusSubmitting: {CheckoutStatusSucceeded, CheckoutStatusFailed},
}

func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
