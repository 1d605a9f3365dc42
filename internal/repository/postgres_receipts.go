package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type PostgresReceipts struct {
	db *sql.DB
}

func NewPostgresReceipts(cred *Credentials) (*PostgresReceipts, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresReceipts{db: db}, nil
}

func (r *PostgresReceipts) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *PostgresReceipts) SaveReceipt(ctx context.Context, userID string, c domain.Confirmation) error {
	const q = `
		INSERT INTO receipts (transaction_id, user_id, buyer_name, buyer_email, total, operation_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transaction_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, q,
		c.TransactionID, userID, c.Name, c.Email, c.Total, c.OperationDate)
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

func (r *PostgresReceipts) ReceiptByTransactionID(ctx context.Context, transactionID string) (*domain.Confirmation, error) {
	const q = `
		SELECT transaction_id, buyer_name, buyer_email, total, operation_date
		FROM receipts
		WHERE transaction_id = $1`

	var c domain.Confirmation
	err := r.db.QueryRowContext(ctx, q, transactionID).Scan(
		&c.TransactionID, &c.Name, &c.Email, &c.Total, &c.OperationDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return &c, nil
}

func (r *PostgresReceipts) Close() error {
	return r.db.Close()
}
