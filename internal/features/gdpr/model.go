package gdpr

import (
	"net/url"
	"strings"

	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"
	"ainews-console/internal/dialog"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/screen"
)

const (
	ConsentsCollection  = "/api/admin/gdpr/consents"
	RequestsCollection  = "/api/admin/gdpr/requests"
	BreachesCollection  = "/api/admin/gdpr/breaches"
	RetentionCollection = "/api/admin/gdpr/retention"
	ExportPath          = "/api/admin/gdpr/export"
)

func options(pairs ...string) []models.FieldOption {
	out := make([]models.FieldOption, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.FieldOption{Value: pairs[i], Label: pairs[i+1]})
	}
	return out
}

var (
	Purposes = options(
		"marketing", "Marketing",
		"analytics", "Analytics",
		"personalization", "Personalization",
		"newsletter", "Newsletter",
		"third_party", "Third-party sharing",
	)
	RequestTypes = options(
		"access", "Access",
		"erasure", "Erasure",
		"rectification", "Rectification",
		"portability", "Portability",
		"restriction", "Restriction",
		"objection", "Objection",
	)
	RequestStatuses = options(
		"pending", "Pending",
		"in_progress", "In progress",
		"completed", "Completed",
		"rejected", "Rejected",
	)
	Severities = options(
		"low", "Low",
		"medium", "Medium",
		"high", "High",
		"critical", "Critical",
	)
	BreachStatuses = options(
		"open", "Open",
		"investigating", "Investigating",
		"contained", "Contained",
		"resolved", "Resolved",
	)
	RetentionActions = options(
		"delete", "Delete",
		"anonymize", "Anonymize",
		"archive", "Archive",
	)
)

var ConsentSchema = form.MustSchema(
	form.Field{Path: "userId", Label: "User ID", Required: true},
	form.Field{Path: "purpose", Label: "Purpose", Type: models.FieldTypeSelect, Options: Purposes, Default: "marketing", Required: true},
	form.Field{Path: "granted", Label: "Granted", Type: models.FieldTypeBoolean},
	form.Field{Path: "source", Label: "Source", Type: models.FieldTypeSelect, Options: options("web", "Website", "app", "App", "email", "Email", "import", "Import"), Default: "web"},
	form.Field{Path: "policyVersion", Label: "Policy version", Default: "1.0"},
	form.Field{Path: "expiresAt", Label: "Expires", Type: models.FieldTypeDate, OmitEmpty: true},
	form.Field{Path: "metadata.ipAddress", Label: "IP address"},
	form.Field{Path: "metadata.userAgent", Label: "User agent"},
)

var RequestSchema = form.MustSchema(
	form.Field{Path: "userId", Label: "User ID", Required: true, Tab: "Request"},
	form.Field{Path: "email", Label: "Email", Type: models.FieldTypeEmail, Tab: "Request"},
	form.Field{Path: "type", Label: "Type", Type: models.FieldTypeSelect, Options: RequestTypes, Default: "access", Required: true, Tab: "Request"},
	form.Field{Path: "status", Label: "Status", Type: models.FieldTypeSelect, Options: RequestStatuses, Default: "pending", Tab: "Request"},
	form.Field{Path: "details", Label: "Details", Type: models.FieldTypeTextArea, Tab: "Request"},
	form.Field{Path: "dueDate", Label: "Due date", Type: models.FieldTypeDate, OmitEmpty: true, Tab: "Request"},
	form.Field{Path: "response.notes", Label: "Response notes", Type: models.FieldTypeTextArea, Tab: "Response"},
	form.Field{Path: "response.completedAt", Label: "Completed on", Type: models.FieldTypeDate, OmitEmpty: true, Tab: "Response"},
)

var BreachSchema = form.MustSchema(
	form.Field{Path: "title", Label: "Title", Required: true, Tab: "Incident"},
	form.Field{Path: "severity", Label: "Severity", Type: models.FieldTypeSelect, Options: Severities, Default: "medium", Required: true, Tab: "Incident"},
	form.Field{Path: "status", Label: "Status", Type: models.FieldTypeSelect, Options: BreachStatuses, Default: "open", Tab: "Incident"},
	form.Field{Path: "description", Label: "Description", Type: models.FieldTypeTextArea, Tab: "Incident"},
	form.Field{Path: "detectedAt", Label: "Detected on", Type: models.FieldTypeDate, OmitEmpty: true, Tab: "Incident"},
	form.Field{Path: "affectedUsers", Label: "Affected users", Type: models.FieldTypeNumber, Tab: "Impact"},
	form.Field{Path: "dataCategories", Label: "Data categories", Type: models.FieldTypeMultiSelect, Tab: "Impact"},
	form.Field{Path: "notification.authorityNotified", Label: "Authority notified", Type: models.FieldTypeBoolean, Tab: "Notification"},
	form.Field{Path: "notification.usersNotified", Label: "Users notified", Type: models.FieldTypeBoolean, Tab: "Notification"},
	form.Field{Path: "notification.notifiedAt", Label: "Notified on", Type: models.FieldTypeDate, OmitEmpty: true, Tab: "Notification"},
)

var RetentionSchema = form.MustSchema(
	form.Field{Path: "dataType", Label: "Data type", Required: true},
	form.Field{Path: "retentionDays", Label: "Retention (days)", Type: models.FieldTypeNumber, Default: 365, Required: true},
	form.Field{Path: "action", Label: "On expiry", Type: models.FieldTypeSelect, Options: RetentionActions, Default: "delete"},
	form.Field{Path: "legalBasis", Label: "Legal basis"},
	form.Field{Path: "description", Label: "Description", Type: models.FieldTypeTextArea},
	form.Field{Path: "isActive", Label: "Active", Type: models.FieldTypeBoolean, Default: true},
)

// NewConsentsDefinition lists consent records, hiding soft-deleted ones.
func NewConsentsDefinition() screen.Definition {
	return screen.Definition{
		Name:       "gdpr-consents",
		Title:      "Consents",
		Singular:   "Consent",
		Collection: ConsentsCollection,
		ListQuery:  url.Values{"includeDeleted": {"false"}},
		Schema:     ConsentSchema,
		Listing: listing.Spec{
			SearchFields: []string{"userId", "metadata.ipAddress", "policyVersion"},
			FilterFields: []string{"purpose", "granted"},
			PageSize:     15,
		},
		Columns:      []string{"userId", "purpose", "granted", "source", "policyVersion", "createdAt"},
		EmptyMessage: "No consent records found",
		Label: func(rec backend.Record) string {
			return rec.Get("purpose").String() + " consent for " + rec.Get("userId").String()
		},
	}
}

// NewRequestsDefinition lists data subject requests; completed requests can
// be exported for the user.
func NewRequestsDefinition() screen.Definition {
	return screen.Definition{
		Name:       "gdpr-requests",
		Title:      "Data Requests",
		Singular:   "Data request",
		Collection: RequestsCollection,
		ListQuery:  url.Values{"limit": {"500"}},
		Schema:     RequestSchema,
		Listing: listing.Spec{
			SearchFields: []string{"userId", "email", "details"},
			FilterFields: []string{"type", "status"},
			PageSize:     15,
		},
		Columns: []string{"userId", "email", "type", "status", "dueDate", "createdAt"},
		Label: func(rec backend.Record) string {
			return rec.Get("type").String() + " request from " + rec.Get("userId").String()
		},
		Actions: []screen.Action{{
			Name:    "export",
			Label:   "Export user data",
			Kind:    screen.ActionDownload,
			Success: "The user's data export has been downloaded.",
			Path: func(rec backend.Record) string {
				return backend.JoinPath(ExportPath, rec.Get("userId").String())
			},
			Available: func(rec backend.Record) bool {
				return rec.Get("userId").String() != ""
			},
		}},
	}
}

// NewBreachesDefinition tracks data breaches and their resolution.
func NewBreachesDefinition() screen.Definition {
	return screen.Definition{
		Name:       "gdpr-breaches",
		Title:      "Breaches",
		Singular:   "Breach",
		Collection: BreachesCollection,
		ListQuery:  url.Values{"limit": {"200"}},
		Schema:     BreachSchema,
		Listing: listing.Spec{
			SearchFields: []string{"title", "description"},
			FilterFields: []string{"severity", "status"},
			PageSize:     12,
		},
		Columns: []string{"title", "severity", "status", "affectedUsers", "detectedAt", "notification.authorityNotified"},
		DeleteConfirm: func(rec backend.Record) dialog.Dialog {
			return dialog.Confirm(
				"Delete breach record",
				"Deleting \""+rec.Get("title").String()+"\" removes it from the breach register. Regulators may ask for this record; prefer resolving it.",
				"Delete",
			)
		},
		Actions: []screen.Action{{
			Name:    "resolve",
			Label:   "Resolve breach",
			Kind:    screen.ActionPost,
			Input:   []string{"resolution"},
			Success: "The breach was marked as resolved.",
			Body: func(_ backend.Record, input map[string]any) any {
				resolution, _ := input["resolution"].(string)
				return map[string]string{"resolution": strings.TrimSpace(resolution)}
			},
			Available: func(rec backend.Record) bool {
				return rec.Get("status").String() != "resolved"
			},
		}},
	}
}

// NewRetentionDefinition manages retention policies.
func NewRetentionDefinition() screen.Definition {
	return screen.Definition{
		Name:       "gdpr-retention",
		Title:      "Retention Policies",
		Singular:   "Retention policy",
		Collection: RetentionCollection,
		ListQuery:  url.Values{"limit": {"200"}},
		Schema:     RetentionSchema,
		Listing: listing.Spec{
			SearchFields: []string{"dataType", "legalBasis", "description"},
			FilterFields: []string{"action", "isActive"},
			PageSize:     15,
		},
		Columns: []string{"dataType", "retentionDays", "action", "legalBasis", "isActive"},
		Label: func(rec backend.Record) string {
			return rec.Get("dataType").String()
		},
	}
}
