package countries

import (
	"fmt"
	"net/url"
	"strings"

	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/screen"
)

const Collection = "/api/admin/countries"

var Regions = []models.FieldOption{
	{Value: "north-america", Label: "North America"},
	{Value: "south-america", Label: "South America"},
	{Value: "europe", Label: "Europe"},
	{Value: "asia", Label: "Asia"},
	{Value: "africa", Label: "Africa"},
	{Value: "oceania", Label: "Oceania"},
	{Value: "middle-east", Label: "Middle East"},
}

var Schema = form.MustSchema(
	form.Field{Path: "name", Label: "Name", Required: true, Tab: "General"},
	form.Field{Path: "code", Label: "ISO code", Required: true, Tab: "General"},
	form.Field{Path: "code3", Label: "ISO alpha-3", Tab: "General"},
	form.Field{Path: "flag", Label: "Flag", Tab: "General"},
	form.Field{Path: "region", Label: "Region", Type: models.FieldTypeSelect, Options: Regions, Default: "europe", Tab: "General"},
	form.Field{Path: "isActive", Label: "Active", Type: models.FieldTypeBoolean, Default: true, Tab: "General"},
	form.Field{Path: "priority", Label: "Priority", Type: models.FieldTypeNumber, Tab: "General"},
	form.Field{Path: "localization.language", Label: "Language", Default: "en", Tab: "Localization"},
	form.Field{Path: "localization.languages", Label: "Other languages", Type: models.FieldTypeMultiSelect, Tab: "Localization"},
	form.Field{Path: "localization.timezone", Label: "Timezone", Default: "UTC", Tab: "Localization"},
	form.Field{Path: "localization.dateFormat", Label: "Date format", Default: "YYYY-MM-DD", Tab: "Localization"},
	form.Field{Path: "localization.currency.code", Label: "Currency code", Tab: "Localization"},
	form.Field{Path: "localization.currency.symbol", Label: "Currency symbol", Tab: "Localization"},
	form.Field{Path: "compliance.gdpr", Label: "GDPR applies", Type: models.FieldTypeBoolean, Tab: "Compliance"},
	form.Field{Path: "compliance.ccpa", Label: "CCPA applies", Type: models.FieldTypeBoolean, Tab: "Compliance"},
	form.Field{Path: "compliance.ageOfConsent", Label: "Age of digital consent", Type: models.FieldTypeNumber, Default: 16, Tab: "Compliance"},
	form.Field{Path: "compliance.dataResidency", Label: "Data residency required", Type: models.FieldTypeBoolean, Tab: "Compliance"},
	form.Field{Path: "compliance.notes", Label: "Compliance notes", Type: models.FieldTypeTextArea, Tab: "Compliance"},
)

// NewDefinition is the countries screen.
func NewDefinition() screen.Definition {
	return screen.Definition{
		Name:       "countries",
		Title:      "Countries",
		Singular:   "Country",
		Collection: Collection,
		ListQuery:  url.Values{"limit": {"300"}},
		Schema:     Schema,
		Listing: listing.Spec{
			SearchFields: []string{"name", "code", "code3"},
			FilterFields: []string{"region", "isActive"},
			PageSize:     15,
		},
		Columns: []string{"flag", "name", "code", "region", "localization.currency.code", "compliance.gdpr", "isActive"},
		Prepare: normalizeCodes,
		Label: func(rec backend.Record) string {
			return fmt.Sprintf("%s (%s)", rec.Get("name").String(), rec.Get("code").String())
		},
	}
}

// normalizeCodes upper-cases ISO and currency codes.
func normalizeCodes(st form.State) {
	for _, path := range []string{"code", "code3", "localization.currency.code"} {
		if v, ok := st[path].(string); ok {
			st[path] = strings.ToUpper(strings.TrimSpace(v))
		}
	}
}
