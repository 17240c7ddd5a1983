package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withCommon(fields ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort fields per table
var (
	UserSortFields          = withCommon("username", "email", "display_name", "role", "status", "last_login_at")
	CustomerSortFields      = withCommon("code", "name", "email", "status")
	InvoiceSortFields       = withCommon("number", "status", "total", "due_date", "sent_at", "paid_at")
	BOQItemSortFields       = withCommon("project_code", "code", "amount", "progress", "completed_at")
	EmployeeSortFields      = withCommon("code", "full_name", "department", "hire_date", "status")
	PurchaseOrderSortFields = withCommon("number", "supplier", "total", "status", "approved_at")
)
