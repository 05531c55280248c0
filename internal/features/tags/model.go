package tags

import (
	"net/url"

	"ainews-console/internal/common/models"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/screen"
	"ainews-console/pkg/utils"
)

const Collection = "/api/admin/tags"

var TagTypes = []models.FieldOption{
	{Value: "topic", Label: "Topic"},
	{Value: "model", Label: "AI Model"},
	{Value: "company", Label: "Company"},
	{Value: "person", Label: "Person"},
	{Value: "technology", Label: "Technology"},
	{Value: "region", Label: "Region"},
}

var Schema = form.MustSchema(
	form.Field{Path: "name", Label: "Name", Required: true, Tab: "Basic"},
	form.Field{Path: "slug", Label: "Slug", Tab: "Basic"},
	form.Field{Path: "type", Label: "Type", Type: models.FieldTypeSelect, Options: TagTypes, Default: "topic", Required: true, Tab: "Basic"},
	form.Field{Path: "description", Label: "Description", Type: models.FieldTypeTextArea, Tab: "Basic"},
	form.Field{Path: "color", Label: "Color", Type: models.FieldTypeColor, Default: "#3B82F6", Tab: "Display"},
	form.Field{Path: "icon", Label: "Icon", Tab: "Display"},
	form.Field{Path: "parentTag", Label: "Parent tag", Tab: "Display", OmitEmpty: true},
	form.Field{Path: "isActive", Label: "Active", Type: models.FieldTypeBoolean, Default: true, Tab: "Display"},
	form.Field{Path: "isFeatured", Label: "Featured", Type: models.FieldTypeBoolean, Tab: "Display"},
	form.Field{Path: "seo.metaTitle", Label: "Meta title", Tab: "SEO"},
	form.Field{Path: "seo.metaDescription", Label: "Meta description", Type: models.FieldTypeTextArea, Tab: "SEO"},
	form.Field{Path: "seo.keywords", Label: "Keywords", Type: models.FieldTypeMultiSelect, Tab: "SEO"},
)

// NewDefinition is the tags screen.
func NewDefinition() screen.Definition {
	return screen.Definition{
		Name:       "tags",
		Title:      "Tags",
		Singular:   "Tag",
		Collection: Collection,
		ListQuery:  url.Values{"limit": {"500"}},
		Schema:     Schema,
		Listing: listing.Spec{
			SearchFields: []string{"name", "slug", "description"},
			FilterFields: []string{"type", "isActive"},
			PageSize:     12,
		},
		Columns:     []string{"name", "slug", "type", "usageCount", "isActive", "isFeatured"},
		EmptyAction: "Create your first tag",
		Prepare:     deriveSlug,
	}
}

// deriveSlug fills an empty slug from the name.
func deriveSlug(st form.State) {
	if slug, _ := st["slug"].(string); slug != "" {
		return
	}
	name, _ := st["name"].(string)
	st["slug"] = utils.Slugify(name)
}
