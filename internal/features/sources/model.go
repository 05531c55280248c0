package sources

import (
	"net/url"
	"strings"

	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/screen"
)

const Collection = "/api/admin/sources"

var (
	SourceTypes = []models.FieldOption{
		{Value: "rss", Label: "RSS feed"},
		{Value: "api", Label: "API"},
		{Value: "scraper", Label: "Scraper"},
		{Value: "newsletter", Label: "Newsletter"},
		{Value: "social", Label: "Social"},
	}
	Statuses = []models.FieldOption{
		{Value: "active", Label: "Active"},
		{Value: "paused", Label: "Paused"},
		{Value: "error", Label: "Error"},
		{Value: "flagged", Label: "Flagged"},
	}
	Regions = []models.FieldOption{
		{Value: "global", Label: "Global"},
		{Value: "north-america", Label: "North America"},
		{Value: "europe", Label: "Europe"},
		{Value: "asia-pacific", Label: "Asia Pacific"},
		{Value: "latin-america", Label: "Latin America"},
		{Value: "middle-east-africa", Label: "Middle East & Africa"},
	}
)

var Schema = form.MustSchema(
	form.Field{Path: "name", Label: "Name", Required: true, Tab: "Basic"},
	form.Field{Path: "url", Label: "URL", Type: models.FieldTypeURL, Tab: "Basic"},
	form.Field{Path: "type", Label: "Type", Type: models.FieldTypeSelect, Options: SourceTypes, Default: "rss", Required: true, Tab: "Basic"},
	form.Field{Path: "description", Label: "Description", Type: models.FieldTypeTextArea, Tab: "Basic"},
	form.Field{Path: "region", Label: "Region", Type: models.FieldTypeSelect, Options: Regions, Default: "global", Tab: "Basic"},
	form.Field{Path: "language", Label: "Language", Default: "en", Tab: "Basic"},
	form.Field{Path: "categories", Label: "Categories", Type: models.FieldTypeMultiSelect, Tab: "Basic"},
	form.Field{Path: "status", Label: "Status", Type: models.FieldTypeSelect, Options: Statuses, Default: "active", Tab: "Fetching"},
	form.Field{Path: "fetchConfig.frequencyMinutes", Label: "Fetch every (minutes)", Type: models.FieldTypeNumber, Default: 60, Tab: "Fetching"},
	form.Field{Path: "fetchConfig.selector", Label: "Content selector", Tab: "Fetching"},
	form.Field{Path: "fetchConfig.maxItems", Label: "Max items per fetch", Type: models.FieldTypeNumber, Default: 50, Tab: "Fetching"},
	form.Field{Path: "credibility.score", Label: "Credibility score", Type: models.FieldTypeNumber, Default: 50, Tab: "Trust"},
	form.Field{Path: "credibility.verified", Label: "Verified", Type: models.FieldTypeBoolean, Tab: "Trust"},
	form.Field{Path: "credibility.notes", Label: "Notes", Type: models.FieldTypeTextArea, Tab: "Trust"},
	form.Field{Path: "contact.email", Label: "Contact email", Type: models.FieldTypeEmail, Tab: "Trust"},
)

// NewDefinition is the sources screen.
func NewDefinition() screen.Definition {
	return screen.Definition{
		Name:       "sources",
		Title:      "Sources",
		Singular:   "Source",
		Collection: Collection,
		ListQuery:  url.Values{"limit": {"500"}},
		Schema:     Schema,
		Listing: listing.Spec{
			SearchFields: []string{"name", "url", "description"},
			FilterFields: []string{"type", "status", "region"},
			PageSize:     12,
		},
		Columns: []string{"name", "url", "type", "region", "status", "credibility.score", "lastFetchedAt"},
		Actions: []screen.Action{{
			Name:    "flag",
			Label:   "Flag source",
			Kind:    screen.ActionPost,
			Input:   []string{"reason"},
			Success: "The source was flagged for review.",
			Body:    flagBody,
			Available: func(rec backend.Record) bool {
				return rec.Get("status").String() != "flagged"
			},
		}},
	}
}

func flagBody(_ backend.Record, input map[string]any) any {
	reason, _ := input["reason"].(string)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Flagged from the admin console"
	}
	return map[string]string{"reason": reason}
}
