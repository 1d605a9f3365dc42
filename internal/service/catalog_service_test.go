package service

import (
	"context"
	"testing"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "c1", Name: "Combo Clásico", Price: 22.90, Category: domain.CategoryCombo},
		{ID: "c5", Name: "Gaseosa Grande", Price: 9.90, Category: domain.CategoryDrink},
	}
}

func TestCandyProducts_FetchesOnceWithinTTL(t *testing.T) {
	source := &mockCatalogSource{products: testProducts()}
	svc := NewCatalogService(source)
	ctx := context.Background()

	first, err := svc.CandyProducts(ctx)
	require.NoError(t, err)
	second, err := svc.CandyProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestPremieres_ErrorPassesThrough(t *testing.T) {
	source := &mockCatalogSource{err: assert.AnError}
	svc := NewCatalogService(source)

	_, err := svc.Premieres(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestPremieres_ErrorIsNotCached(t *testing.T) {
	source := &mockCatalogSource{err: assert.AnError}
	svc := NewCatalogService(source)
	ctx := context.Background()

	_, err := svc.Premieres(ctx)
	require.Error(t, err)

	source.m.Lock()
	source.err = nil
	source.premieres = []domain.Premiere{{ID: "1", Title: "Deadpool & Wolverine"}}
	source.m.Unlock()

	premieres, err := svc.Premieres(ctx)
	require.NoError(t, err)
	assert.Len(t, premieres, 1)
}

func TestProduct_LookupById(t *testing.T) {
	source := &mockCatalogSource{products: testProducts()}
	svc := NewCatalogService(source)
	ctx := context.Background()

	product, found, err := svc.Product(ctx, "c5")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Gaseosa Grande", product.Name)

	_, found, err = svc.Product(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}
