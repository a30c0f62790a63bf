// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Credential errors
	CodeUnknownPrincipal Code = "CREDENTIAL_UNKNOWN_PRINCIPAL"
	CodeSecretMismatch   Code = "CREDENTIAL_SECRET_MISMATCH"
	CodeUnknownRole      Code = "CREDENTIAL_UNKNOWN_ROLE"
	CodeProfileMissing   Code = "CREDENTIAL_PROFILE_MISSING"

	// Manuscript errors
	CodeManuscriptNotFound Code = "MANUSCRIPT_NOT_FOUND"
	CodeManuscriptNotReady Code = "MANUSCRIPT_NOT_READY"
	CodePageBudgetExceeded Code = "MANUSCRIPT_PAGE_BUDGET_EXCEEDED"
	CodeEmptyTitle         Code = "MANUSCRIPT_EMPTY_TITLE"

	// Issue errors
	CodeIssueNotFound     Code = "ISSUE_NOT_FOUND"
	CodeIssueEmpty        Code = "ISSUE_EMPTY"
	CodeInvalidIssueLabel Code = "ISSUE_INVALID_LABEL"

	// Profile errors
	CodeEmptyName Code = "PROFILE_EMPTY_NAME"

	// Assignment errors
	CodeAssignmentRejected Code = "ASSIGNMENT_REJECTED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
