package cache

import "strings"

// Namespaces of cached API responses.
const (
	NamespaceLocations  = "locations"
	NamespaceCatalog    = "catalog"
	NamespaceCategories = "categories"
)

// Key identifies a cached API response.
type Key struct {
	// Namespace is the response family (catalog, categories, locations).
	Namespace string

	// LocationID scopes the entry to one location. Empty for global entries.
	LocationID string
}

// String generates the Redis key.
// Format: namespace[:locationID]
//
// Example:
//
//	catalog:L8ZB2BQ3X1Y7K
func (k Key) String() string {
	if k.LocationID == "" {
		return k.Namespace
	}
	return k.Namespace + ":" + k.LocationID
}

// Pattern returns the SCAN pattern matching every location-scoped key in the
// namespace.
func (k Key) Pattern() string {
	return k.Namespace + ":*"
}

// LocationsKey is the key of the location list.
func LocationsKey() Key {
	return Key{Namespace: NamespaceLocations}
}

// CatalogKey is the key of the menu for a location.
func CatalogKey(locationID string) Key {
	return Key{Namespace: NamespaceCatalog, LocationID: locationID}
}

// CategoriesKey is the key of the category counts for a location.
func CategoriesKey(locationID string) Key {
	return Key{Namespace: NamespaceCategories, LocationID: locationID}
}

// namespaceOf extracts the namespace from a raw key or pattern for metric labels.
func namespaceOf(s string) string {
	ns, _, _ := strings.Cut(s, ":")
	return ns
}
