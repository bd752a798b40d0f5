// Package seed writes a sample café menu into a Square catalog and can wipe
// the catalog beforehand. It is meant for sandbox accounts.
package seed

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/money"
	"github.com/Sternrassler/square-menu/pkg/pagination"
	"github.com/Sternrassler/square-menu/pkg/square"
)

const (
	searchPath      = "/catalog/search"
	batchDeletePath = "/catalog/batch-delete"
	batchUpsertPath = "/catalog/batch-upsert"

	// deleteBatchSize is Square's limit on object ids per batch-delete.
	deleteBatchSize = 200
)

// Upstream is the subset of the Square client the seeder needs.
type Upstream interface {
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Seeder writes sample catalog data.
type Seeder struct {
	upstream Upstream
	walker   *pagination.Walker
	retry    square.RetryConfig
	logger   zerolog.Logger
}

// New creates a seeder. Writes are retried with retry.
func New(upstream Upstream, retry square.RetryConfig) *Seeder {
	return &Seeder{
		upstream: upstream,
		walker:   pagination.NewWalker(pagination.DefaultConfig()),
		retry:    retry,
		logger:   logging.NewLogger("seed"),
	}
}

// Result summarizes a seed run.
type Result struct {
	Deleted int
	Created int
}

// Run optionally cleans the catalog, then writes the sample menu.
func (s *Seeder) Run(ctx context.Context, clean bool) (*Result, error) {
	res := &Result{}
	if clean {
		deleted, err := s.Clean(ctx)
		if err != nil {
			return nil, err
		}
		res.Deleted = deleted
	}

	created, err := s.Seed(ctx)
	if err != nil {
		return nil, err
	}
	res.Created = created
	return res, nil
}

// Clean deletes every ITEM, CATEGORY and IMAGE and returns how many objects
// were deleted.
func (s *Seeder) Clean(ctx context.Context) (int, error) {
	var ids []string
	for _, kind := range []square.ObjectType{square.ObjectTypeItem, square.ObjectTypeCategory, square.ObjectTypeImage} {
		found, err := s.listIDs(ctx, kind)
		if err != nil {
			return 0, errors.Wrapf(err, "list %s objects", kind)
		}
		ids = append(ids, found...)
	}

	if len(ids) == 0 {
		s.logger.Info().Msg("Catalog already empty")
		return 0, nil
	}

	for start := 0; start < len(ids); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(ids))
		body := map[string]any{"object_ids": ids[start:end]}

		err := square.Retry(ctx, s.retry, func(ctx context.Context) error {
			_, err := s.upstream.Post(ctx, batchDeletePath, body)
			return err
		})
		if err != nil {
			return start, errors.Wrap(err, "batch delete")
		}
	}

	s.logger.Info().Int("deleted", len(ids)).Msg("Catalog cleaned")
	return len(ids), nil
}

func (s *Seeder) listIDs(ctx context.Context, kind square.ObjectType) ([]string, error) {
	var ids []string
	_, err := s.walker.Walk(ctx, searchPath, func(ctx context.Context, cursor string) (string, error) {
		var raw json.RawMessage
		err := square.Retry(ctx, s.retry, func(ctx context.Context) error {
			var err error
			raw, err = s.upstream.Post(ctx, searchPath, searchRequest{
				ObjectTypes: []square.ObjectType{kind},
				Cursor:      cursor,
			})
			return err
		})
		if err != nil {
			return "", err
		}

		page, err := square.ParseSearchCatalog(raw)
		if err != nil {
			return "", err
		}
		for _, obj := range page.Objects {
			ids = append(ids, obj.ID)
		}
		return page.Cursor, nil
	})
	return ids, err
}

type searchRequest struct {
	ObjectTypes []square.ObjectType `json:"object_types"`
	Cursor      string              `json:"cursor,omitempty"`
}

// Seed upserts the sample menu in a single batch and returns the number of
// objects Square reports as written.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	objects := buildObjects(tempID)
	body := upsertRequest{
		IdempotencyKey: uuid.NewString(),
		Batches:        []upsertBatch{{Objects: objects}},
	}

	var raw json.RawMessage
	err := square.Retry(ctx, s.retry, func(ctx context.Context) error {
		var err error
		raw, err = s.upstream.Post(ctx, batchUpsertPath, body)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "batch upsert")
	}

	var resp struct {
		Objects []struct {
			ID string `json:"id"`
		} `json:"objects"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, errors.Wrap(square.ErrInvalidPayload, err.Error())
	}

	s.logger.Info().
		Int("sent", len(objects)).
		Int("created", len(resp.Objects)).
		Msg("Sample menu written")
	return len(resp.Objects), nil
}

// tempID returns a client-side id. Square replaces ids starting with '#'.
func tempID() string {
	return "#" + uuid.NewString()[:8]
}

type upsertRequest struct {
	IdempotencyKey string        `json:"idempotency_key"`
	Batches        []upsertBatch `json:"batches"`
}

type upsertBatch struct {
	Objects []upsertObject `json:"objects"`
}

type upsertObject struct {
	Type                  string           `json:"type"`
	ID                    string           `json:"id"`
	PresentAtAllLocations bool             `json:"present_at_all_locations,omitempty"`
	CategoryData          *upsertCategory  `json:"category_data,omitempty"`
	ItemData              *upsertItem      `json:"item_data,omitempty"`
	ItemVariationData     *upsertVariation `json:"item_variation_data,omitempty"`
}

type upsertCategory struct {
	Name string `json:"name"`
}

type upsertCategoryRef struct {
	ID string `json:"id"`
}

type upsertItem struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Categories  []upsertCategoryRef `json:"categories"`
	Variations  []upsertObject      `json:"variations"`
}

type upsertMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type upsertVariation struct {
	Name        string      `json:"name"`
	PricingType string      `json:"pricing_type"`
	PriceMoney  upsertMoney `json:"price_money"`
}

// buildObjects renders the sample menu: all categories first, then items.
func buildObjects(newID func() string) []upsertObject {
	var categories, items []upsertObject

	for _, cat := range sampleMenu {
		catID := newID()
		categories = append(categories, upsertObject{
			Type:         string(square.ObjectTypeCategory),
			ID:           catID,
			CategoryData: &upsertCategory{Name: cat.name},
		})

		for _, it := range cat.items {
			variations := make([]upsertObject, 0, len(it.variations))
			for _, v := range it.variations {
				variations = append(variations, upsertObject{
					Type: "ITEM_VARIATION",
					ID:   newID(),
					ItemVariationData: &upsertVariation{
						Name:        v.name,
						PricingType: "FIXED_PRICING",
						PriceMoney:  upsertMoney{Amount: v.cents, Currency: money.DefaultCurrency},
					},
				})
			}

			items = append(items, upsertObject{
				Type:                  string(square.ObjectTypeItem),
				ID:                    newID(),
				PresentAtAllLocations: true,
				ItemData: &upsertItem{
					Name:        it.name,
					Description: it.description,
					Categories:  []upsertCategoryRef{{ID: catID}},
					Variations:  variations,
				},
			})
		}
	}

	return append(categories, items...)
}
