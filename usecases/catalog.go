package usecases

import (
	"context"

	"ecowattch-server/cache"
	"ecowattch-server/entities"
	"ecowattch-server/repositories"
)

type CatalogUseCase struct {
	OfferingRepo repositories.OfferingRepository
	Cache        *cache.PaletteCache
}

func NewCatalogUseCase(offeringRepo repositories.OfferingRepository, paletteCache *cache.PaletteCache) *CatalogUseCase {
	return &CatalogUseCase{
		OfferingRepo: offeringRepo,
		Cache:        paletteCache,
	}
}

// Palettes returns the offering catalog, served from the cache while fresh.
func (uc *CatalogUseCase) Palettes(ctx context.Context) ([]entities.Offering, error) {
	if uc.Cache != nil {
		if offerings, ok := uc.Cache.Get(); ok {
			return offerings, nil
		}
	}

	offerings, err := uc.OfferingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if uc.Cache != nil {
		uc.Cache.Set(offerings)
	}
	return offerings, nil
}

// Refresh drops the cached catalog and reloads it from the store.
func (uc *CatalogUseCase) Refresh(ctx context.Context) ([]entities.Offering, error) {
	if uc.Cache != nil {
		uc.Cache.Invalidate()
	}
	return uc.Palettes(ctx)
}
