package square

import (
	"encoding/json"
	"slices"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ObjectType tags a catalog object.
type ObjectType string

// Catalog object kinds the menu consumes.
const (
	ObjectTypeItem     ObjectType = "ITEM"
	ObjectTypeCategory ObjectType = "CATEGORY"
	ObjectTypeImage    ObjectType = "IMAGE"
)

// Location statuses.
const (
	LocationActive   = "ACTIVE"
	LocationInactive = "INACTIVE"
)

// ObjectData is the kind-specific payload of a catalog object. It is one of
// *ItemData, *CategoryData or *ImageData.
type ObjectData interface {
	objectType() ObjectType
}

// CatalogObject is a validated catalog object. Data is nil for kinds other
// than ITEM, CATEGORY and IMAGE.
type CatalogObject struct {
	Type                  ObjectType
	ID                    string
	PresentAtAllLocations bool
	PresentAtLocationIDs  []string
	Data                  ObjectData
}

// PresentAt reports whether the object is available at the location.
func (o CatalogObject) PresentAt(locationID string) bool {
	if o.PresentAtAllLocations {
		return true
	}
	return slices.Contains(o.PresentAtLocationIDs, locationID)
}

// ItemData is the payload of an ITEM. Text fields are nil when absent.
type ItemData struct {
	Name                 *string
	Description          *string
	DescriptionPlaintext *string
	// CategoryID is the legacy single-category reference.
	CategoryID  string
	CategoryIDs []string
	ImageIDs    []string
	Variations  []Variation
}

// Variation is an item variation with schema defaults applied.
type Variation struct {
	ID    string
	Name  string
	Price *Money
}

// Money is an amount in minor units.
type Money struct {
	Amount   int64
	Currency string
}

// CategoryData is the payload of a CATEGORY.
type CategoryData struct {
	Name string
}

// ImageData is the payload of an IMAGE.
type ImageData struct {
	URL string
}

func (*ItemData) objectType() ObjectType     { return ObjectTypeItem }
func (*CategoryData) objectType() ObjectType { return ObjectTypeCategory }
func (*ImageData) objectType() ObjectType    { return ObjectTypeImage }

// SearchCatalogResponse is one validated page of /catalog/search.
type SearchCatalogResponse struct {
	Objects        []CatalogObject
	RelatedObjects []CatalogObject
	Cursor         string
}

// Location is a validated location record. Optional strings are empty when
// absent.
type Location struct {
	ID           string
	Name         string
	Address      *Address
	Timezone     string
	Capabilities []string
	Status       string
	CreatedAt    string
	MerchantID   string
	Country      string
	LanguageCode string
	Currency     string
	BusinessName string
	Type         string
	MCC          string
}

// Address is a location's postal address.
type Address struct {
	AddressLine1                 string
	Locality                     string
	AdministrativeDistrictLevel1 string
	PostalCode                   string
	Country                      string
}

// ListLocationsResponse is the validated /locations payload.
type ListLocationsResponse struct {
	Locations []Location
}

type wireMoney struct {
	Amount   *int64 `json:"amount" validate:"required"`
	Currency string `json:"currency"`
}

type wireVariationData struct {
	Name       *string    `json:"name"`
	PriceMoney *wireMoney `json:"price_money"`
}

// Identifiers are pointers so that validation checks presence and still
// accepts empty strings.
type wireVariation struct {
	Type *string            `json:"type" validate:"required"`
	ID   *string            `json:"id" validate:"required"`
	Data *wireVariationData `json:"item_variation_data"`
}

type wireCategoryRef struct {
	ID *string `json:"id" validate:"required"`
}

type wireItemData struct {
	Name                 *string           `json:"name"`
	Description          *string           `json:"description"`
	DescriptionPlaintext *string           `json:"description_plaintext"`
	CategoryID           string            `json:"category_id"`
	Categories           []wireCategoryRef `json:"categories" validate:"dive"`
	ImageIDs             []string          `json:"image_ids"`
	Variations           []wireVariation   `json:"variations" validate:"dive"`
}

type wireObject struct {
	Type                  *string       `json:"type" validate:"required"`
	ID                    *string       `json:"id" validate:"required"`
	PresentAtAllLocations bool          `json:"present_at_all_locations"`
	PresentAtLocationIDs  []string      `json:"present_at_location_ids"`
	ItemData              *wireItemData `json:"item_data"`
	CategoryData          *struct {
		Name string `json:"name"`
	} `json:"category_data"`
	ImageData *struct {
		URL string `json:"url"`
	} `json:"image_data"`
}

type wireSearchResponse struct {
	Objects        []wireObject `json:"objects" validate:"dive"`
	RelatedObjects []wireObject `json:"related_objects" validate:"dive"`
	Cursor         string       `json:"cursor"`
}

type wireAddress struct {
	AddressLine1                 string `json:"address_line_1"`
	Locality                     string `json:"locality"`
	AdministrativeDistrictLevel1 string `json:"administrative_district_level_1"`
	PostalCode                   string `json:"postal_code"`
	Country                      string `json:"country"`
}

type wireLocation struct {
	ID            *string        `json:"id" validate:"required"`
	Name          *string        `json:"name" validate:"required"`
	Address       *wireAddress   `json:"address"`
	Timezone      string         `json:"timezone"`
	Capabilities  []string       `json:"capabilities"`
	Status        string         `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	CreatedAt     string         `json:"created_at"`
	MerchantID    string         `json:"merchant_id"`
	Country       string         `json:"country"`
	LanguageCode  string         `json:"language_code"`
	Currency      string         `json:"currency"`
	BusinessName  string         `json:"business_name"`
	Type          string         `json:"type"`
	BusinessHours map[string]any `json:"business_hours"`
	MCC           string         `json:"mcc"`
}

type wireListLocations struct {
	Locations []wireLocation `json:"locations" validate:"dive"`
}

// decode unmarshals raw into v and validates it.
func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(ErrInvalidPayload, "decode: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		return errors.Wrapf(ErrInvalidPayload, "validate: %v", err)
	}
	return nil
}

// ParseSearchCatalog validates one page of a /catalog/search response.
func ParseSearchCatalog(raw []byte) (*SearchCatalogResponse, error) {
	var wire wireSearchResponse
	if err := decode(raw, &wire); err != nil {
		return nil, err
	}

	return &SearchCatalogResponse{
		Objects:        convertObjects(wire.Objects),
		RelatedObjects: convertObjects(wire.RelatedObjects),
		Cursor:         wire.Cursor,
	}, nil
}

func convertObjects(in []wireObject) []CatalogObject {
	out := make([]CatalogObject, 0, len(in))
	for _, w := range in {
		out = append(out, convertObject(w))
	}
	return out
}

func convertObject(w wireObject) CatalogObject {
	obj := CatalogObject{
		Type:                  ObjectType(*w.Type),
		ID:                    *w.ID,
		PresentAtAllLocations: w.PresentAtAllLocations,
		PresentAtLocationIDs:  w.PresentAtLocationIDs,
	}
	if obj.PresentAtLocationIDs == nil {
		obj.PresentAtLocationIDs = []string{}
	}

	switch obj.Type {
	case ObjectTypeItem:
		obj.Data = convertItem(w.ItemData)
	case ObjectTypeCategory:
		data := &CategoryData{}
		if w.CategoryData != nil {
			data.Name = w.CategoryData.Name
		}
		obj.Data = data
	case ObjectTypeImage:
		data := &ImageData{}
		if w.ImageData != nil {
			data.URL = w.ImageData.URL
		}
		obj.Data = data
	}
	return obj
}

func convertItem(w *wireItemData) *ItemData {
	item := &ItemData{
		CategoryIDs: []string{},
		ImageIDs:    []string{},
		Variations:  []Variation{},
	}
	if w == nil {
		return item
	}

	item.Name = w.Name
	item.Description = w.Description
	item.DescriptionPlaintext = w.DescriptionPlaintext
	item.CategoryID = w.CategoryID
	for _, ref := range w.Categories {
		item.CategoryIDs = append(item.CategoryIDs, *ref.ID)
	}
	item.ImageIDs = append(item.ImageIDs, w.ImageIDs...)

	for _, v := range w.Variations {
		variation := Variation{ID: *v.ID, Name: "Regular"}
		if v.Data != nil {
			if v.Data.Name != nil {
				variation.Name = *v.Data.Name
			}
			if m := v.Data.PriceMoney; m != nil {
				currency := m.Currency
				if currency == "" {
					currency = "USD"
				}
				variation.Price = &Money{Amount: *m.Amount, Currency: currency}
			}
		}
		item.Variations = append(item.Variations, variation)
	}
	return item
}

// ParseListLocations validates a /locations response.
func ParseListLocations(raw []byte) (*ListLocationsResponse, error) {
	var wire wireListLocations
	if err := decode(raw, &wire); err != nil {
		return nil, err
	}

	out := &ListLocationsResponse{Locations: make([]Location, 0, len(wire.Locations))}
	for _, w := range wire.Locations {
		loc := Location{
			ID:           *w.ID,
			Name:         *w.Name,
			Timezone:     w.Timezone,
			Capabilities: w.Capabilities,
			Status:       w.Status,
			CreatedAt:    w.CreatedAt,
			MerchantID:   w.MerchantID,
			Country:      w.Country,
			LanguageCode: w.LanguageCode,
			Currency:     w.Currency,
			BusinessName: w.BusinessName,
			Type:         w.Type,
			MCC:          w.MCC,
		}
		if loc.Status == "" {
			loc.Status = LocationActive
		}
		if loc.Capabilities == nil {
			loc.Capabilities = []string{}
		}
		if w.Address != nil {
			addr := Address(*w.Address)
			loc.Address = &addr
		}
		out.Locations = append(out.Locations, loc)
	}
	return out, nil
}
