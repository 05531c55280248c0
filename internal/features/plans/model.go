package plans

import (
	"fmt"
	"net/url"

	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"
	"ainews-console/internal/dialog"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/screen"
	"ainews-console/pkg/utils"
)

const Collection = "/api/admin/plans"

var Intervals = []models.FieldOption{
	{Value: "month", Label: "Monthly"},
	{Value: "year", Label: "Yearly"},
	{Value: "lifetime", Label: "Lifetime"},
}

var Schema = form.MustSchema(
	form.Field{Path: "name", Label: "Name", Required: true, Tab: "Plan"},
	form.Field{Path: "code", Label: "Code", Required: true, Tab: "Plan"},
	form.Field{Path: "description", Label: "Description", Type: models.FieldTypeTextArea, Tab: "Plan"},
	form.Field{Path: "isActive", Label: "Active", Type: models.FieldTypeBoolean, Default: true, Tab: "Plan"},
	form.Field{Path: "isPopular", Label: "Highlight as popular", Type: models.FieldTypeBoolean, Tab: "Plan"},
	form.Field{Path: "sortOrder", Label: "Sort order", Type: models.FieldTypeNumber, Tab: "Plan"},
	form.Field{Path: "price.amount", Label: "Price", Type: models.FieldTypeNumber, Tab: "Pricing"},
	form.Field{Path: "price.currency", Label: "Currency", Default: "USD", Tab: "Pricing"},
	form.Field{Path: "interval", Label: "Billing interval", Type: models.FieldTypeSelect, Options: Intervals, Default: "month", Tab: "Pricing"},
	form.Field{Path: "trialDays", Label: "Trial days", Type: models.FieldTypeNumber, Tab: "Pricing"},
	form.Field{Path: "features", Label: "Features", Type: models.FieldTypeMultiSelect, Tab: "Features"},
	form.Field{Path: "limits.articlesPerMonth", Label: "Articles per month", Type: models.FieldTypeNumber, Tab: "Features"},
	form.Field{Path: "limits.bookmarks", Label: "Bookmarks", Type: models.FieldTypeNumber, Tab: "Features"},
	form.Field{Path: "limits.adFree", Label: "Ad free", Type: models.FieldTypeBoolean, Tab: "Features"},
)

// NewDefinition is the subscription plans screen.
func NewDefinition() screen.Definition {
	return screen.Definition{
		Name:       "plans",
		Title:      "Subscription Plans",
		Singular:   "Plan",
		Collection: Collection,
		ListQuery:  url.Values{"limit": {"100"}},
		Schema:     Schema,
		Listing: listing.Spec{
			SearchFields: []string{"name", "code", "description"},
			FilterFields: []string{"interval", "isActive"},
			PageSize:     12,
		},
		Columns:       []string{"name", "code", "price.amount", "price.currency", "interval", "subscriberCount", "isActive"},
		EmptyMessage:  "No plans found",
		EmptyAction:   "Create your first plan",
		Prepare:       normalizeCode,
		DeleteConfirm: deleteConfirm,
	}
}

func normalizeCode(st form.State) {
	if code, ok := st["code"].(string); ok {
		st["code"] = utils.Slugify(code)
	}
}

// deleteConfirm warns when the plan still has subscribers. The delete call is
// the same either way.
func deleteConfirm(rec backend.Record) dialog.Dialog {
	name := rec.Get("name").String()
	if n := rec.Get("subscriberCount").Int(); n > 0 {
		noun := "subscribers"
		if n == 1 {
			noun = "subscriber"
		}
		return dialog.Confirm(
			"Plan has active subscribers",
			fmt.Sprintf("%q has %d active %s. Deleting it will affect their subscriptions. Delete anyway?", name, n, noun),
			"Delete anyway",
		)
	}
	return dialog.Confirm(
		"Delete plan",
		fmt.Sprintf("Are you sure you want to delete %q? This cannot be undone.", name),
		"Delete",
	)
}
