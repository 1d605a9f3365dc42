package simulator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/google/uuid"
)

// OutcomeSource decides the approval state of a simulated charge.
type OutcomeSource interface {
	Outcome(cardNumber string) string
}

// CardDrivenOutcome makes declines reproducible: specific card suffixes
// force a verdict, everything else approves with a small random error rate.
type CardDrivenOutcome struct {
	rng *rand.Rand
}

func NewCardDrivenOutcome() *CardDrivenOutcome {
	return &CardDrivenOutcome{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CardDrivenOutcome) Outcome(cardNumber string) string {
	switch {
	case strings.HasSuffix(cardNumber, "0000"):
		return domain.PaymentStateDeclined
	case strings.HasSuffix(cardNumber, "9999"):
		return domain.PaymentStateError
	case strings.HasSuffix(cardNumber, "8888"):
		return domain.PaymentStatePending
	}

	if c.rng.Intn(100) < 3 {
		return domain.PaymentStateError
	}
	return domain.PaymentStateApproved
}

// FixedOutcome always answers with the same state, for tests.
type FixedOutcome struct {
	State string
}

func (f FixedOutcome) Outcome(string) string {
	return f.State
}

func buildPaymentResult(state string) domain.PaymentResult {
	transactionID := uuid.NewString()
	operationDate := time.Now().UTC().Format(time.RFC3339)

	responseCode := state
	networkCode := "00"
	if state != domain.PaymentStateApproved {
		networkCode = "05"
	}

	return domain.PaymentResult{
		Code:              "SUCCESS",
		TransactionalCode: "SUCCESS",
		FlatTransactionID: transactionID,
		FlatOperationDate: operationDate,
		TransactionResponse: domain.TransactionResponse{
			OrderID:         int64(rand.Intn(9_000_000) + 1_000_000),
			TransactionID:   transactionID,
			State:           state,
			ResponseCode:    responseCode,
			TrazabilityCode: strings.ToUpper(uuid.NewString()[:8]),
			OperationDate:   operationDate,
			NetworkCode:     networkCode,
		},
	}
}
