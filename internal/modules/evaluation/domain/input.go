package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "fieldaudit/internal/platform/errors"
)

const DateLayout = "02/01/2006"

// dateInputLayouts are the accepted forms of a field date.
var dateInputLayouts = []string{"2/1/2006", "2006-01-02"}

var areaCodePattern = regexp.MustCompile(`^\d+-[A-Za-z]$`)

// NormalizeAreaCode trims and upper-cases codes such as "592-b".
func NormalizeAreaCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if !areaCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: area code %q must look like 592-B", apperrors.ErrInvalidInput, raw)
	}
	return strings.ToUpper(code), nil
}

// NormalizeDate accepts dd/mm/yyyy or yyyy-mm-dd and renders dd/mm/yyyy.
func NormalizeDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: date %q must be dd/mm/yyyy", apperrors.ErrInvalidInput, raw)
}
