package domain

// Status is a manuscript lifecycle state. Values are stored verbatim in the
// manuscripts table and rendered verbatim in status tables.
type Status string

const (
	// StatusSubmitted is the state of a freshly submitted manuscript.
	StatusSubmitted Status = "submitted"
	// StatusUnderReview marks a manuscript assigned to at least one reviewer.
	StatusUnderReview Status = "under review"
	// StatusReady marks an accepted manuscript eligible for scheduling.
	StatusReady Status = "ready"
	// StatusRejected marks a rejected manuscript.
	StatusRejected Status = "rejected"
	// StatusScheduled marks a manuscript placed into an issue.
	StatusScheduled Status = "schedule for publication"
	// StatusPublished marks a manuscript in a published issue.
	StatusPublished Status = "published"
)

// PageBudget is the maximum page total an issue can hold.
const PageBudget = 100

// CanSchedule reports whether a manuscript in the given status with the
// given page count fits into an issue that already holds scheduledPages.
// Only ready manuscripts are eligible, and the issue total after admission
// must not exceed the page budget.
func CanSchedule(status Status, pageCount, scheduledPages int) bool {
	return status == StatusReady && scheduledPages+pageCount <= PageBudget
}
