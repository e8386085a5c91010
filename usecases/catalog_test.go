package usecases

import (
	"context"
	"testing"
	"time"

	"ecowattch-server/cache"
	"ecowattch-server/entities"
	"ecowattch-server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogUseCase_Palettes(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore(true)
	store.SeedOfferings(entities.Offering{OfferingName: "Sunset"})
	uc := NewCatalogUseCase(store.Offerings(), cache.NewPaletteCache(time.Hour))

	first, err := uc.Palettes(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	store.SeedOfferings(entities.Offering{OfferingName: "Sunset"}, entities.Offering{OfferingName: "Forest"})
	cached, err := uc.Palettes(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	refreshed, err := uc.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, refreshed, 2)
}

func TestCatalogUseCase_NoCache(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore(true)
	uc := NewCatalogUseCase(store.Offerings(), nil)

	empty, err := uc.Palettes(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	store.SeedOfferings(entities.Offering{OfferingName: "Forest"})
	got, err := uc.Palettes(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
