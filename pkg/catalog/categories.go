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
)

// uncategorizedID groups items without a category reference.
const uncategorizedID = "uncategorized"

// Categories returns the categories sold at a location with their item
// counts, sorted by name.
func (s *Service) Categories(ctx context.Context, locationID string) ([]Category, error) {
	if locationID == "" {
		return nil, apierr.MissingParam("location_id")
	}

	key := cache.CategoriesKey(locationID)
	var cached []Category
	if s.store.Get(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	snap, err := s.fetchCatalog(ctx)
	if err != nil {
		observe(cache.NamespaceCategories, start, err)
		return nil, err
	}

	categories := countCategories(snap, locationID)
	s.store.Set(ctx, key, categories, s.config.TTL)
	observe(cache.NamespaceCategories, start, nil)

	logger := logging.For(ctx, s.logger)
	logger.Info().
		Str(logging.FieldLocationID, locationID).
		Int("categories", len(categories)).
		Dur("duration", time.Since(start)).
		Msg("Categories aggregated")

	return categories, nil
}

func countCategories(snap *snapshot, locationID string) []Category {
	var order []string
	counts := make(map[string]int)

	for _, li := range snap.itemsAt(locationID) {
		id := categoryRef(li.data)
		if id == "" {
			id = uncategorizedID
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}

	categories := make([]Category, 0, len(order))
	for _, id := range order {
		categories = append(categories, Category{
			ID:        id,
			Name:      snap.categoryName(id),
			ItemCount: counts[id],
		})
	}

	col := collate.New(language.English)
	slices.SortStableFunc(categories, func(a, b Category) int {
		return col.CompareString(a.Name, b.Name)
	})
	return categories
}
