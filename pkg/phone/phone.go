package phone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers written without a country code
const DefaultRegion = "AE"

// PhoneType is the line type reported by libphonenumber
type PhoneType string

const (
	TypeFixedLine         PhoneType = "FIXED_LINE"
	TypeMobile            PhoneType = "MOBILE"
	TypeFixedLineOrMobile PhoneType = "FIXED_LINE_OR_MOBILE"
	TypeTollFree          PhoneType = "TOLL_FREE"
	TypeVoip              PhoneType = "VOIP"
	TypeUnknown           PhoneType = "UNKNOWN"
)

// ValidationResult contains the result of phone number validation.
type ValidationResult struct {
	IsValid             bool      `json:"is_valid"`
	E164Format          string    `json:"e164_format"`
	InternationalFormat string    `json:"international_format"`
	NationalFormat      string    `json:"national_format"`
	CountryCode         string    `json:"country_code"`
	PhoneType           PhoneType `json:"phone_type"`
}

func parse(phone, region string) (*phonenumbers.PhoneNumber, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("phone number cannot be empty")
	}
	if region == "" {
		region = DefaultRegion
	}
	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}
	return parsed, nil
}

// Validate parses phone and reports its formats and line type
func Validate(phone, region string) (*ValidationResult, error) {
	parsed, err := parse(phone, region)
	if err != nil {
		return nil, err
	}

	return &ValidationResult{
		IsValid:             phonenumbers.IsValidNumber(parsed),
		E164Format:          phonenumbers.Format(parsed, phonenumbers.E164),
		InternationalFormat: phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL),
		NationalFormat:      phonenumbers.Format(parsed, phonenumbers.NATIONAL),
		CountryCode:         phonenumbers.GetRegionCodeForNumber(parsed),
		PhoneType:           phoneType(phonenumbers.GetNumberType(parsed)),
	}, nil
}

// Normalize returns phone in E.164 form. Invalid numbers are an error.
func Normalize(phone, region string) (string, error) {
	parsed, err := parse(phone, region)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// NormalizeOrKeep normalizes phone when it parses as a valid number and
// returns it trimmed but otherwise untouched when it does not.
func NormalizeOrKeep(phone string) string {
	if e164, err := Normalize(phone, DefaultRegion); err == nil {
		return e164
	}
	return strings.TrimSpace(phone)
}

var candidatePattern = regexp.MustCompile(`\+?\(?\d[\d\s().-]{6,18}\d`)

// Find returns the valid phone numbers mentioned in text, E.164 formatted,
// in order of first appearance.
func Find(text, region string) []string {
	var out []string
	seen := map[string]bool{}
	for _, candidate := range candidatePattern.FindAllString(text, -1) {
		e164, err := Normalize(candidate, region)
		if err != nil || seen[e164] {
			continue
		}
		seen[e164] = true
		out = append(out, e164)
	}
	return out
}

func phoneType(t phonenumbers.PhoneNumberType) PhoneType {
	switch t {
	case phonenumbers.FIXED_LINE:
		return TypeFixedLine
	case phonenumbers.MOBILE:
		return TypeMobile
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return TypeFixedLineOrMobile
	case phonenumbers.TOLL_FREE:
		return TypeTollFree
	case phonenumbers.VOIP:
		return TypeVoip
	default:
		return TypeUnknown
	}
}
