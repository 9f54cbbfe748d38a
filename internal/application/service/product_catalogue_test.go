package service

import (
	"context"
	"testing"

	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogue_FillsEmptyCatalogue(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo)

	starter := StarterCatalogue()
	require.NotEmpty(t, starter)

	n, err := svc.SeedCatalogue(context.Background(), starter)
	require.NoError(t, err)
	assert.Equal(t, len(starter), n)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(starter)), count)

	suit, err := repo.GetByCode(context.Background(), "DC-SUIT")
	require.NoError(t, err)
	require.NotNil(t, suit)
	assert.Equal(t, int64(80000), suit.Price)
	assert.True(t, suit.Active)
}

func TestSeedCatalogue_LeavesExistingCatalogueAlone(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(entity.Product{Code: "OWN-1", Name: "House special", Price: 5000, Active: true})
	svc := NewProductService(repo)

	n, err := svc.SeedCatalogue(context.Background(), StarterCatalogue())
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
