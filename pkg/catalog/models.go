package catalog

// Menu is the flattened menu for one location.
type Menu struct {
	// Categories holds the distinct category names in item order.
	Categories []string   `json:"categories"`
	Items      []MenuItem `json:"items"`
}

// MenuItem is a sellable item with its category and image resolved.
type MenuItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	CategoryID  string      `json:"categoryId"`
	ImageURL    *string     `json:"imageUrl"`
	Variations  []Variation `json:"variations"`
}

// Variation is a priced option of a menu item.
type Variation struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PriceCents     int64  `json:"priceCents"`
	PriceFormatted string `json:"priceFormatted"`
}

// Category is a category with the number of items sold at a location.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// Location is an active business location.
type Location struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      *Address `json:"address"`
	Timezone     string   `json:"timezone"`
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities"`
	Currency     string   `json:"currency"`
	Country      string   `json:"country"`
	LanguageCode string   `json:"languageCode"`
	BusinessName string   `json:"businessName"`
	MerchantID   string   `json:"merchantId"`
	Type         string   `json:"type"`
	MCC          string   `json:"mcc"`
	CreatedAt    string   `json:"createdAt"`
}

// Address is a location's postal address. Absent parts are omitted.
type Address struct {
	AddressLine1                 string `json:"addressLine1,omitempty"`
	Locality                     string `json:"locality,omitempty"`
	AdministrativeDistrictLevel1 string `json:"administrativeDistrictLevel1,omitempty"`
	PostalCode                   string `json:"postalCode,omitempty"`
	Country                      string `json:"country,omitempty"`
}
