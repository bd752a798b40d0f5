package cache

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "locations",
			key:  LocationsKey(),
			want: "locations",
		},
		{
			name: "catalog for location",
			key:  CatalogKey("LOC1"),
			want: "catalog:LOC1",
		},
		{
			name: "categories for location",
			key:  CategoriesKey("L8ZB2BQ3X1Y7K"),
			want: "categories:L8ZB2BQ3X1Y7K",
		},
		{
			name: "namespace only",
			key:  Key{Namespace: NamespaceCatalog},
			want: "catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_Pattern(t *testing.T) {
	if got := CatalogKey("LOC1").Pattern(); got != "catalog:*" {
		t.Errorf("Pattern() = %q, want catalog:*", got)
	}
	if got := CategoriesKey("").Pattern(); got != "categories:*" {
		t.Errorf("Pattern() = %q, want categories:*", got)
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := CatalogKey("LOC1").String()
	for i := 0; i < 10; i++ {
		if b := CatalogKey("LOC1").String(); b != a {
			t.Fatalf("Key not deterministic: %q != %q", a, b)
		}
	}
}

func TestNamespaceOf(t *testing.T) {
	tests := map[string]string{
		"catalog:LOC1": "catalog",
		"categories:*": "categories",
		"locations":    "locations",
	}
	for in, want := range tests {
		if got := namespaceOf(in); got != want {
			t.Errorf("namespaceOf(%q) = %q, want %q", in, got, want)
		}
	}
}
