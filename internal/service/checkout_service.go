package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/go_cinema/internal/client"
	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/repository"
	"go.uber.org/zap"
)

// Attempt tracks one checkout submission through the status machine.
// Terminal states are reached at most once; a resubmission is a new Attempt.
type Attempt struct {
	status       domain.CheckoutStatus
	confirmation *domain.Confirmation
}

func newAttempt() *Attempt {
	return &Attempt{status: domain.CheckoutStatusIdle}
}

func (a *Attempt) Status() domain.CheckoutStatus {
	return a.status
}

// Confirmation is non-nil only when Status is SUCCEEDED.
func (a *Attempt) Confirmation() *domain.Confirmation {
	return a.confirmation
}

func (a *Attempt) transition(to domain.CheckoutStatus) error {
	if !domain.CanTransitionTo(a.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.status, to)
	}
	a.status = to
	return nil
}

type CheckoutService struct {
	carts      *CartService
	receipts   repository.ReceiptRepository
	payment    *PaymentHandler
	completion *CompletionHandler
	logger     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{} // one attempt per user at a time
}

func NewCheckoutService(
	carts *CartService,
	receipts repository.ReceiptRepository,
	payment *PaymentHandler,
	completion *CompletionHandler,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		receipts:   receipts,
		payment:    payment,
		completion: completion,
		logger:     logger,
		inFlight:   make(map[string]struct{}),
	}
}

func (s *CheckoutService) begin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *CheckoutService) end(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

// Submit runs one checkout attempt: charge the payment gateway with the
// cart total, finalize the order through the completion collaborator, and
// only then clear the cart. The cart survives untouched on every failure
// path, and is always empty before a succeeded attempt is returned.
func (s *CheckoutService) Submit(ctx context.Context, userID string, submission domain.PaymentSubmission) (*Attempt, error) {
	if verr := ValidatePayment(submission); verr != nil {
		return nil, verr
	}

	if !s.begin(userID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.end(userID)

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	total := cart.Total()

	attempt := newAttempt()
	if err := attempt.transition(domain.CheckoutStatusSubmitting); err != nil {
		return attempt, err
	}

	payCtx, cancelPay := context.WithTimeout(ctx, s.payment.timeout)
	defer cancelPay()
	payResult, payErr := s.payment.gateway.Charge(payCtx, submission, total)
	if payErr != nil {
		return s.fail(attempt, userID, fmt.Errorf("payment gateway error: %w", payErr))
	}

	if !payResult.Approved() {
		s.logger.Info("payment not approved",
			zap.String("user_id", userID),
			zap.String("state", payResult.TransactionResponse.State))
		return s.fail(attempt, userID,
			fmt.Errorf("%w: state %s", ErrPaymentDeclined, payResult.TransactionResponse.State))
	}

	completeCtx, cancelComplete := context.WithTimeout(ctx, s.completion.timeout)
	defer cancelComplete()
	completion, completeErr := s.completion.completer.Complete(completeCtx, client.CompletionPayload{
		Email:          submission.Email,
		Name:           submission.Name,
		DocumentNumber: submission.DocumentNumber,
		OperationDate:  payResult.OperationDate(),
		TransactionID:  payResult.TransactionID(),
	})
	if completeErr != nil {
		return s.fail(attempt, userID, fmt.Errorf("completion error: %w", completeErr))
	}

	if !completion.Success() {
		// Payment settled but the order is unconfirmed. Nothing here
		// reconciles that; the failure is surfaced for the buyer to retry.
		return s.fail(attempt, userID,
			fmt.Errorf("%w: code %s (%s)", ErrCompletionFailed, completion.Code, completion.Message))
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return s.fail(attempt, userID, fmt.Errorf("failed to clear cart after payment: %w", err))
	}

	confirmation := &domain.Confirmation{
		TransactionID: payResult.TransactionID(),
		OperationDate: payResult.OperationDate(),
		Name:          submission.Name,
		Email:         submission.Email,
		Total:         total,
	}

	if s.receipts != nil {
		if err := s.receipts.SaveReceipt(ctx, userID, *confirmation); err != nil {
			// The order is confirmed; losing the archive copy must not fail it.
			s.logger.Error("failed to archive receipt",
				zap.String("transaction_id", confirmation.TransactionID), zap.Error(err))
		}
	}

	if err := attempt.transition(domain.CheckoutStatusSucceeded); err != nil {
		return attempt, err
	}
	attempt.confirmation = confirmation

	s.logger.Info("checkout succeeded",
		zap.String("user_id", userID),
		zap.String("transaction_id", confirmation.TransactionID),
		zap.Float64("total", total))

	return attempt, nil
}

func (s *CheckoutService) fail(attempt *Attempt, userID string, cause error) (*Attempt, error) {
	if err := attempt.transition(domain.CheckoutStatusFailed); err != nil {
		return attempt, err
	}
	s.logger.Warn("checkout failed", zap.String("user_id", userID), zap.Error(cause))
	return attempt, cause
}
