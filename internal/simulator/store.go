package simulator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// CatalogStore serves the seeded premiere and candy-store listings from
// sqlite.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(dbPath string) (*CatalogStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &CatalogStore{db: db}, nil
}

func (s *CatalogStore) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (s *CatalogStore) Premieres(ctx context.Context) ([]domain.Premiere, error) {
	const q = `
		SELECT id, image_url, title, description, genre, duration, rating
		FROM premieres
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query premieres: %w", err)
	}
	defer rows.Close()

	var premieres []domain.Premiere
	for rows.Next() {
		var p domain.Premiere
		if err := rows.Scan(&p.ID, &p.ImageURL, &p.Title, &p.Description, &p.Genre, &p.Duration, &p.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan premiere: %w", err)
		}
		premieres = append(premieres, p)
	}

	return premieres, rows.Err()
}

func (s *CatalogStore) Products(ctx context.Context) ([]domain.Product, error) {
	const q = `
		SELECT id, name, description, price, image_url, category
		FROM candy_products
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query candy products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category); err != nil {
			return nil, fmt.Errorf("failed to scan candy product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (s *CatalogStore) Close() error {
	return s.db.Close()
}
