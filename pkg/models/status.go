package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeLeadStatus maps free-form input onto Hot, Warm or Cold. Anything
// unrecognised becomes Cold.
func NormalizeLeadStatus(s string) string {
	switch status := cases.Title(language.English).String(strings.TrimSpace(s)); status {
	case StatusHot, StatusWarm, StatusCold:
		return status
	default:
		return StatusCold
	}
}
