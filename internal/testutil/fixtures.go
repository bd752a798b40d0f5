package testutil

// Two-page catalog: Coffee and Pastries at L1, a smoothie only at L2, and an
// item whose category is unknown. The CATEGORY for coffee arrives as a primary
// object on the second page.
const (
	CatalogPage1 = `{
  "objects": [
    {"type": "ITEM", "id": "ESPRESSO", "present_at_all_locations": true,
     "item_data": {"name": "Espresso", "description": "Bold shot.", "categories": [{"id": "CAT-COFFEE"}], "image_ids": ["IMG-ESPRESSO"],
       "variations": [
         {"type": "ITEM_VARIATION", "id": "ESPRESSO-S", "item_variation_data": {"name": "Single", "price_money": {"amount": 350, "currency": "USD"}}},
         {"type": "ITEM_VARIATION", "id": "ESPRESSO-D", "item_variation_data": {"name": "Double", "price_money": {"amount": 450, "currency": "USD"}}}
       ]}},
    {"type": "ITEM", "id": "CROISSANT", "present_at_all_locations": false, "present_at_location_ids": ["L1"],
     "item_data": {"name": "Butter Croissant", "categories": [{"id": "CAT-PASTRY"}],
       "variations": [{"type": "ITEM_VARIATION", "id": "CROISSANT-R", "item_variation_data": {"price_money": {"amount": 395, "currency": "USD"}}}]}}
  ],
  "related_objects": [
    {"type": "CATEGORY", "id": "CAT-PASTRY", "category_data": {"name": "Pastries"}},
    {"type": "IMAGE", "id": "IMG-ESPRESSO", "image_data": {"url": "https://img.example/espresso.jpg"}}
  ],
  "cursor": "PAGE2"
}`

	CatalogPage2 = `{
  "objects": [
    {"type": "ITEM", "id": "MANGO", "present_at_all_locations": false, "present_at_location_ids": ["L2"],
     "item_data": {"name": "Tropical Mango", "categories": [{"id": "CAT-SMOOTHIE"}],
       "variations": [{"type": "ITEM_VARIATION", "id": "MANGO-S", "item_variation_data": {"name": "Small", "price_money": {"amount": 650}}}]}},
    {"type": "ITEM", "id": "MYSTERY", "present_at_all_locations": true,
     "item_data": {"name": "Mystery Box", "categories": [{"id": "CAT-GONE"}],
       "variations": [{"type": "ITEM_VARIATION", "id": "MYSTERY-R"}]}},
    {"type": "CATEGORY", "id": "CAT-COFFEE", "category_data": {"name": "Coffee"}}
  ]
}`

	LocationsBody = `{
  "locations": [
    {"id": "L1", "name": "Downtown", "status": "ACTIVE", "timezone": "America/New_York", "currency": "USD",
     "address": {"address_line_1": "1 Main St", "locality": "Springfield"}},
    {"id": "L2", "name": "Airport", "status": "ACTIVE", "business_name": "Bean There Airport"},
    {"id": "L3", "name": "Closed", "status": "INACTIVE"}
  ]
}`
)

// SetupTwoPageCatalog scripts the two-page catalog fixture and the locations.
func (m *MockSquare) SetupTwoPageCatalog() {
	m.SetCatalogPage("", CatalogPage1)
	m.SetCatalogPage("PAGE2", CatalogPage2)
	m.SetLocations(LocationsBody)
}
