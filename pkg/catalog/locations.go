package catalog

import (
	"context"
	"time"

	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/money"
	"github.com/Sternrassler/square-menu/pkg/square"
)

const locationsPath = "/locations"

// Locations returns the merchant's active locations in upstream order.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	key := cache.LocationsKey()
	var cached []Location
	if s.store.Get(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	locations, err := s.fetchLocations(ctx)
	observe(cache.NamespaceLocations, start, err)
	if err != nil {
		return nil, err
	}

	s.store.Set(ctx, key, locations, s.config.TTL)
	logger := logging.For(ctx, s.logger)
	logger.Info().Int("locations", len(locations)).Msg("Locations listed")
	return locations, nil
}

func (s *Service) fetchLocations(ctx context.Context) ([]Location, error) {
	raw, err := s.upstream.Get(ctx, locationsPath)
	if err != nil {
		return nil, err
	}

	resp, err := square.ParseListLocations(raw)
	if err != nil {
		logger := logging.For(ctx, s.logger)
		logger.Warn().Err(err).Msg("Locations payload failed validation")
		return nil, apierr.InvalidUpstream("Locations")
	}

	locations := make([]Location, 0, len(resp.Locations))
	for _, loc := range resp.Locations {
		if loc.Status != square.LocationActive {
			continue
		}
		locations = append(locations, toLocation(loc))
	}
	return locations, nil
}

func toLocation(loc square.Location) Location {
	out := Location{
		ID:           loc.ID,
		Name:         loc.Name,
		Timezone:     loc.Timezone,
		Status:       loc.Status,
		Capabilities: loc.Capabilities,
		Currency:     loc.Currency,
		Country:      loc.Country,
		LanguageCode: loc.LanguageCode,
		BusinessName: loc.BusinessName,
		MerchantID:   loc.MerchantID,
		Type:         loc.Type,
		MCC:          loc.MCC,
		CreatedAt:    loc.CreatedAt,
	}
	if out.Currency == "" {
		out.Currency = money.DefaultCurrency
	}
	if out.BusinessName == "" {
		out.BusinessName = loc.Name
	}
	if loc.Address != nil {
		out.Address = &Address{
			AddressLine1:                 loc.Address.AddressLine1,
			Locality:                     loc.Address.Locality,
			AdministrativeDistrictLevel1: loc.Address.AdministrativeDistrictLevel1,
			PostalCode:                   loc.Address.PostalCode,
			Country:                      loc.Address.Country,
		}
	}
	return out
}
