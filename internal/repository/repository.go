package repository

import (
	"context"

	"github.com/fjod/go_cinema/internal/domain"
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddProduct(ctx context.Context, userID string, product domain.Product) error
	SetLineQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveLine(ctx context.Context, userID, productID string) error
	DeleteCart(ctx context.Context, userID string) error
}

// ReceiptRepository archives checkout confirmations.
type ReceiptRepository interface {
	SaveReceipt(ctx context.Context, userID string, confirmation domain.Confirmation) error
	ReceiptByTransactionID(ctx context.Context, transactionID string) (*domain.Confirmation, error)
	Close() error
}
