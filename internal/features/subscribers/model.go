package subscribers

import (
	"ainews-console/internal/common/models"
	"ainews-console/internal/listing"
	"ainews-console/internal/screen"
)

const Collection = "/api/admin/subscriptions"

var Plans = []models.FieldOption{
	{Value: "free", Label: "Free"},
	{Value: "pro", Label: "Pro"},
	{Value: "enterprise", Label: "Enterprise"},
}

// NewDefinition is the read-only subscribers screen. Search, the plan filter,
// sorting and paging are all done by the backend.
func NewDefinition() screen.Definition {
	return screen.Definition{
		Name:        "subscribers",
		Title:       "Subscribers",
		Singular:    "Subscriber",
		Collection:  Collection,
		ReadOnly:    true,
		ServerQuery: true,
		Listing: listing.Spec{
			FilterFields: []string{"plan"},
			PageSize:     15,
		},
		Columns:       []string{"user.email", "user.name", "plan.name", "status", "currentPeriodEnd", "createdAt"},
		FilterOptions: map[string][]models.FieldOption{"plan": Plans},
	}
}
