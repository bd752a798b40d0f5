package square

import (
	"testing"

	"github.com/go-faster/errors"
)

func TestParseListLocations(t *testing.T) {
	raw := []byte(`{
		"locations": [
			{
				"id": "LOC123",
				"name": "Main Street Cafe",
				"address": {
					"address_line_1": "123 Main St",
					"locality": "Brooklyn",
					"administrative_district_level_1": "NY",
					"postal_code": "11201",
					"country": "US"
				},
				"timezone": "America/New_York",
				"status": "ACTIVE",
				"business_hours": {"periods": []}
			},
			{"id": "LOC2", "name": "Cafe B", "status": "INACTIVE"}
		]
	}`)

	resp, err := ParseListLocations(raw)
	if err != nil {
		t.Fatalf("ParseListLocations failed: %v", err)
	}
	if len(resp.Locations) != 2 {
		t.Fatalf("Expected 2 locations, got %d", len(resp.Locations))
	}

	loc := resp.Locations[0]
	if loc.Address == nil || loc.Address.Locality != "Brooklyn" {
		t.Errorf("Address not parsed: %+v", loc.Address)
	}
	if loc.Capabilities == nil {
		t.Error("Capabilities should default to empty slice")
	}
	if resp.Locations[1].Status != LocationInactive {
		t.Errorf("Status = %q, want INACTIVE", resp.Locations[1].Status)
	}
}

func TestParseListLocations_Defaults(t *testing.T) {
	resp, err := ParseListLocations([]byte(`{"locations":[{"id":"LOC123","name":"Test"}]}`))
	if err != nil {
		t.Fatalf("ParseListLocations failed: %v", err)
	}
	if resp.Locations[0].Status != LocationActive {
		t.Errorf("Status = %q, want ACTIVE", resp.Locations[0].Status)
	}
	if resp.Locations[0].Address != nil {
		t.Error("Address should be nil when absent")
	}

	empty, err := ParseListLocations([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseListLocations({}) failed: %v", err)
	}
	if empty.Locations == nil || len(empty.Locations) != 0 {
		t.Errorf("Expected empty locations, got %v", empty.Locations)
	}
}

func TestParseListLocations_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing id", `{"locations":[{"name":"Test"}]}`},
		{"missing name", `{"locations":[{"id":"L"}]}`},
		{"bad status", `{"locations":[{"id":"L","name":"Test","status":"CLOSED"}]}`},
		{"wrong type", `{"locations":"nope"}`},
		{"not json", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListLocations([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestParseSearchCatalog(t *testing.T) {
	raw := []byte(`{
		"objects": [
			{
				"type": "ITEM",
				"id": "ITEM1",
				"present_at_all_locations": true,
				"item_data": {
					"name": "Espresso",
					"description": "Strong coffee",
					"category_id": "CAT1",
					"categories": [{"id": "CAT2"}],
					"image_ids": ["IMG1"],
					"variations": [
						{
							"type": "ITEM_VARIATION",
							"id": "VAR1",
							"item_variation_data": {
								"name": "Double",
								"price_money": {"amount": 450}
							}
						},
						{"type": "ITEM_VARIATION", "id": "VAR2", "item_variation_data": {}},
						{"type": "ITEM_VARIATION", "id": "VAR3"}
					]
				}
			}
		],
		"related_objects": [
			{"type": "CATEGORY", "id": "CAT2", "category_data": {"name": "Coffee"}},
			{"type": "IMAGE", "id": "IMG1", "image_data": {"url": "https://img/1.jpg"}},
			{"type": "TAX", "id": "TAX1"}
		],
		"cursor": "next-page"
	}`)

	resp, err := ParseSearchCatalog(raw)
	if err != nil {
		t.Fatalf("ParseSearchCatalog failed: %v", err)
	}
	if resp.Cursor != "next-page" {
		t.Errorf("Cursor = %q", resp.Cursor)
	}

	item, ok := resp.Objects[0].Data.(*ItemData)
	if !ok {
		t.Fatalf("Expected *ItemData, got %T", resp.Objects[0].Data)
	}
	if item.CategoryID != "CAT1" || len(item.CategoryIDs) != 1 || item.CategoryIDs[0] != "CAT2" {
		t.Errorf("Category refs = %q / %v", item.CategoryID, item.CategoryIDs)
	}
	if len(item.Variations) != 3 {
		t.Fatalf("Expected 3 variations, got %d", len(item.Variations))
	}

	first := item.Variations[0]
	if first.Name != "Double" || first.Price == nil || first.Price.Amount != 450 || first.Price.Currency != "USD" {
		t.Errorf("First variation = %+v (price %+v)", first, first.Price)
	}
	for _, v := range item.Variations[1:] {
		if v.Name != "Regular" {
			t.Errorf("Variation %s name = %q, want Regular", v.ID, v.Name)
		}
		if v.Price != nil {
			t.Errorf("Variation %s should have no price", v.ID)
		}
	}

	if cat, ok := resp.RelatedObjects[0].Data.(*CategoryData); !ok || cat.Name != "Coffee" {
		t.Errorf("Category payload = %#v", resp.RelatedObjects[0].Data)
	}
	if img, ok := resp.RelatedObjects[1].Data.(*ImageData); !ok || img.URL != "https://img/1.jpg" {
		t.Errorf("Image payload = %#v", resp.RelatedObjects[1].Data)
	}
	if resp.RelatedObjects[2].Data != nil {
		t.Errorf("Unknown kind should carry no payload, got %#v", resp.RelatedObjects[2].Data)
	}
}

func TestParseSearchCatalog_Defaults(t *testing.T) {
	resp, err := ParseSearchCatalog([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseSearchCatalog failed: %v", err)
	}
	if resp.Objects == nil || resp.RelatedObjects == nil {
		t.Error("Object lists should default to empty slices")
	}
	if resp.Cursor != "" {
		t.Errorf("Cursor = %q, want empty", resp.Cursor)
	}

	resp, err = ParseSearchCatalog([]byte(`{"objects":[{"type":"ITEM","id":"I"}]}`))
	if err != nil {
		t.Fatalf("ParseSearchCatalog failed: %v", err)
	}
	item, ok := resp.Objects[0].Data.(*ItemData)
	if !ok || item.Name != nil || len(item.Variations) != 0 {
		t.Errorf("Item without item_data = %#v", resp.Objects[0].Data)
	}
}

func TestParseSearchCatalog_EmptyIdentifiers(t *testing.T) {
	raw := []byte(`{"objects":[{"type":"ITEM","id":"","present_at_all_locations":true,"item_data":{
		"categories":[{"id":""}],
		"variations":[{"type":"","id":""}]}}]}`)

	resp, err := ParseSearchCatalog(raw)
	if err != nil {
		t.Fatalf("Empty identifiers should be accepted: %v", err)
	}
	if len(resp.Objects) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(resp.Objects))
	}
	item, ok := resp.Objects[0].Data.(*ItemData)
	if !ok {
		t.Fatalf("Expected *ItemData, got %T", resp.Objects[0].Data)
	}
	if len(item.CategoryIDs) != 1 || item.CategoryIDs[0] != "" {
		t.Errorf("CategoryIDs = %q, want one empty id", item.CategoryIDs)
	}
	if len(item.Variations) != 1 || item.Variations[0].Name != "Regular" {
		t.Errorf("Variations = %+v", item.Variations)
	}
}

func TestParseListLocations_EmptyName(t *testing.T) {
	resp, err := ParseListLocations([]byte(`{"locations":[{"id":"L1","name":""}]}`))
	if err != nil {
		t.Fatalf("Empty name should be accepted: %v", err)
	}
	if resp.Locations[0].Name != "" || resp.Locations[0].ID != "L1" {
		t.Errorf("Location = %+v", resp.Locations[0])
	}
}

func TestParseSearchCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object without id", `{"objects":[{"type":"ITEM"}]}`},
		{"related without type", `{"related_objects":[{"id":"X"}]}`},
		{"money without amount", `{"objects":[{"type":"ITEM","id":"I","item_data":{"variations":[{"type":"ITEM_VARIATION","id":"V","item_variation_data":{"price_money":{"currency":"USD"}}}]}}]}`},
		{"variation without id", `{"objects":[{"type":"ITEM","id":"I","item_data":{"variations":[{"type":"ITEM_VARIATION"}]}}]}`},
		{"category ref without id", `{"objects":[{"type":"ITEM","id":"I","item_data":{"categories":[{}]}}]}`},
		{"amount as string", `{"objects":[{"type":"ITEM","id":"I","item_data":{"variations":[{"type":"ITEM_VARIATION","id":"V","item_variation_data":{"price_money":{"amount":"450"}}}]}}]}`},
		{"objects not a list", `{"objects":{}}`},
		{"null id", `{"objects":[{"type":"ITEM","id":null}]}`},
		{"category ref with null id", `{"objects":[{"type":"ITEM","id":"I","item_data":{"categories":[{"id":null}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSearchCatalog([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestCatalogObject_PresentAt(t *testing.T) {
	tests := []struct {
		name     string
		obj      CatalogObject
		location string
		want     bool
	}{
		{
			name:     "present everywhere ignores explicit list",
			obj:      CatalogObject{PresentAtAllLocations: true, PresentAtLocationIDs: []string{"LOC2"}},
			location: "LOC1",
			want:     true,
		},
		{
			name:     "explicit list match",
			obj:      CatalogObject{PresentAtLocationIDs: []string{"LOC1", "LOC2"}},
			location: "LOC2",
			want:     true,
		},
		{
			name:     "explicit list miss",
			obj:      CatalogObject{PresentAtLocationIDs: []string{"LOC2"}},
			location: "LOC1",
			want:     false,
		},
		{
			name:     "no presence data",
			obj:      CatalogObject{},
			location: "LOC1",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.PresentAt(tt.location); got != tt.want {
				t.Errorf("PresentAt(%q) = %v, want %v", tt.location, got, tt.want)
			}
		})
	}
}
