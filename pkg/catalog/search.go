package catalog

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/square"
)

const searchPath = "/catalog/search"

// searchRequest is the /catalog/search body.
type searchRequest struct {
	ObjectTypes           []square.ObjectType `json:"object_types"`
	IncludeRelatedObjects bool                `json:"include_related_objects"`
	Cursor                string              `json:"cursor,omitempty"`
}

// snapshot is a complete catalog read with lookup indexes.
type snapshot struct {
	// objects are the primary search results in upstream order.
	objects []square.CatalogObject

	categoryNames map[string]string
	imageURLs     map[string]string
}

// fetchCatalog reads every page of the catalog. A page that fails validation
// aborts the read and nothing collected so far is returned.
func (s *Service) fetchCatalog(ctx context.Context) (*snapshot, error) {
	var objects, related []square.CatalogObject

	pages, err := s.walker.Walk(ctx, searchPath, func(ctx context.Context, cursor string) (string, error) {
		raw, err := s.upstream.Post(ctx, searchPath, searchRequest{
			ObjectTypes:           []square.ObjectType{square.ObjectTypeItem, square.ObjectTypeCategory},
			IncludeRelatedObjects: true,
			Cursor:                cursor,
		})
		if err != nil {
			return "", err
		}

		page, err := square.ParseSearchCatalog(raw)
		if err != nil {
			logger := logging.For(ctx, s.logger)
			logger.Warn().Err(err).Str("cursor", cursor).Msg("Catalog page failed validation")
			return "", apierr.InvalidUpstream("Catalog")
		}

		objects = append(objects, page.Objects...)
		related = append(related, page.RelatedObjects...)
		related = append(related, page.Objects...)
		return page.Cursor, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "catalog read cancelled")
	}

	snap := &snapshot{
		objects:       objects,
		categoryNames: make(map[string]string),
		imageURLs:     make(map[string]string),
	}
	for _, obj := range related {
		switch data := obj.Data.(type) {
		case *square.CategoryData:
			if data.Name != "" {
				snap.categoryNames[obj.ID] = data.Name
			}
		case *square.ImageData:
			if data.URL != "" {
				snap.imageURLs[obj.ID] = data.URL
			}
		}
	}

	logger := logging.For(ctx, s.logger)
	logger.Debug().
		Int("pages", pages).
		Int("objects", len(objects)).
		Int("categories", len(snap.categoryNames)).
		Int("images", len(snap.imageURLs)).
		Msg("Catalog read")

	return snap, nil
}

// itemsAt returns the ITEM payloads sold at the location, in upstream order.
func (snap *snapshot) itemsAt(locationID string) []locatedItem {
	var out []locatedItem
	for _, obj := range snap.objects {
		data, ok := obj.Data.(*square.ItemData)
		if !ok || !obj.PresentAt(locationID) {
			continue
		}
		out = append(out, locatedItem{id: obj.ID, data: data})
	}
	return out
}

type locatedItem struct {
	id   string
	data *square.ItemData
}

// categoryRef is the item's first listed category, else the legacy single
// category field. Empty when the item references no category.
func categoryRef(item *square.ItemData) string {
	if len(item.CategoryIDs) > 0 {
		return item.CategoryIDs[0]
	}
	return item.CategoryID
}

// categoryName resolves a category id, defaulting to Uncategorized.
func (snap *snapshot) categoryName(id string) string {
	if name, ok := snap.categoryNames[id]; ok && id != "" {
		return name
	}
	return Uncategorized
}

// imageURL returns the first image of the item that resolves, or nil.
func (snap *snapshot) imageURL(item *square.ItemData) *string {
	for _, id := range item.ImageIDs {
		if url, ok := snap.imageURLs[id]; ok {
			return &url
		}
	}
	return nil
}
