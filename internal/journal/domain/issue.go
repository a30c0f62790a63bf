package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openpress/manuscripta/internal/platform/errors"
)

// IssueLabel is the user-facing identity of an issue, written "YYYY-P".
type IssueLabel struct {
	Year   int
	Period int
}

// ErrInvalidIssueLabel indicates a label that does not parse as "YYYY-P".
var ErrInvalidIssueLabel = errors.New(errors.CodeInvalidIssueLabel, "issue label must be YYYY-P")

// ParseIssueLabel parses a strict "YYYY-P" label: a four-digit year, a
// hyphen, and a positive period number.
func ParseIssueLabel(s string) (IssueLabel, error) {
	year, period, ok := strings.Cut(s, "-")
	if !ok || len(year) != 4 {
		return IssueLabel{}, ErrInvalidIssueLabel
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1000 {
		return IssueLabel{}, ErrInvalidIssueLabel
	}
	p, err := strconv.Atoi(period)
	if err != nil || p < 1 {
		return IssueLabel{}, ErrInvalidIssueLabel
	}
	return IssueLabel{Year: y, Period: p}, nil
}

// String renders the label in its canonical "YYYY-P" form.
func (l IssueLabel) String() string {
	return fmt.Sprintf("%04d-%d", l.Year, l.Period)
}
