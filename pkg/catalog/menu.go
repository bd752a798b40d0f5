package catalog

import (
	"context"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/money"
	"github.com/Sternrassler/square-menu/pkg/square"
)

// Defaults for absent catalog fields.
const (
	Uncategorized        = "Uncategorized"
	UntitledItem         = "Untitled"
	DefaultVariationName = "Regular"
)

// Menu returns the menu for a location, sorted by category name.
func (s *Service) Menu(ctx context.Context, locationID string) (*Menu, error) {
	if locationID == "" {
		return nil, apierr.MissingParam("location_id")
	}

	key := cache.CatalogKey(locationID)
	var cached Menu
	if s.store.Get(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	snap, err := s.fetchCatalog(ctx)
	if err != nil {
		observe(cache.NamespaceCatalog, start, err)
		return nil, err
	}

	menu := buildMenu(snap, locationID)
	s.store.Set(ctx, key, menu, s.config.TTL)
	observe(cache.NamespaceCatalog, start, nil)

	logger := logging.For(ctx, s.logger)
	logger.Info().
		Str(logging.FieldLocationID, locationID).
		Int("items", len(menu.Items)).
		Int("categories", len(menu.Categories)).
		Dur("duration", time.Since(start)).
		Msg("Menu aggregated")

	return menu, nil
}

func buildMenu(snap *snapshot, locationID string) *Menu {
	located := snap.itemsAt(locationID)
	items := make([]MenuItem, 0, len(located))

	for _, li := range located {
		item := li.data
		ref := categoryRef(item)

		name := UntitledItem
		if item.Name != nil {
			name = *item.Name
		}

		items = append(items, MenuItem{
			ID:          li.id,
			Name:        name,
			Description: description(item.DescriptionPlaintext, item.Description),
			Category:    snap.categoryName(ref),
			CategoryID:  ref,
			ImageURL:    snap.imageURL(item),
			Variations:  variations(item),
		})
	}

	col := collate.New(language.English)
	slices.SortStableFunc(items, func(a, b MenuItem) int {
		return col.CompareString(a.Category, b.Category)
	})

	categories := make([]string, 0)
	for _, item := range items {
		if !slices.Contains(categories, item.Category) {
			categories = append(categories, item.Category)
		}
	}

	return &Menu{Categories: categories, Items: items}
}

// description prefers the plaintext rendering of the item description.
func description(plaintext, rich *string) string {
	if plaintext != nil {
		return *plaintext
	}
	if rich != nil {
		return *rich
	}
	return ""
}

func variations(item *square.ItemData) []Variation {
	out := make([]Variation, 0, len(item.Variations))
	for _, v := range item.Variations {
		var amount int64
		currency := money.DefaultCurrency
		if v.Price != nil {
			amount = v.Price.Amount
			currency = v.Price.Currency
		}
		out = append(out, Variation{
			ID:             v.ID,
			Name:           v.Name,
			PriceCents:     amount,
			PriceFormatted: money.Format(amount, currency),
		})
	}
	return out
}
