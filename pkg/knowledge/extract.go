package knowledge

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/phone"
)

// MaxKeyTerms caps the key terms recorded per document
const MaxKeyTerms = 10

// PropertyRef names a unit mentioned in text
type PropertyRef struct {
	Building string `json:"building"`
	Unit     string `json:"unit"`
}

// Label renders the reference the way the agent writes it
func (p PropertyRef) Label() string {
	return p.Building + " Unit " + p.Unit
}

// ContactInfo is the first email and phone found in text
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	pricePatterns = []struct {
		re         *regexp.Regexp
		multiplier float64
	}{
		{regexp.MustCompile(`(?i)AED\s*([0-9]+(?:\.[0-9]+)?)\s*(million|m\b|k\b)?`), 0},
		{regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(million|m\b|k\b)?\s*AED`), 0},
		{regexp.MustCompile(`(?i)\$\s*([0-9]+(?:\.[0-9]+)?)\s*(million|m\b|k\b)?`), 0},
		{regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*million\b`), 1_000_000},
		{regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*k\b`), 1_000},
	}

	realEstateTerms = []string{
		"apartment", "villa", "penthouse", "townhouse", "studio",
		"bedroom", "bathroom", "sqft", "square feet", "balcony",
		"parking", "gym", "pool", "garden", "view", "furnished",
		"lease", "rent", "sale", "buy", "investment", "mortgage",
		"dubai", "abu dhabi", "sharjah", "palm jumeirah", "downtown",
		"marina", "jbr", "business bay", "difc", "deira",
	}

	contentTypes = map[string]string{
		"pdf":  "document",
		"doc":  "document",
		"docx": "document",
		"txt":  "text",
		"md":   "text",
		"csv":  "data",
		"json": "data",
		"xls":  "spreadsheet",
		"xlsx": "spreadsheet",
		"jpg":  "image",
		"jpeg": "image",
		"png":  "image",
		"gif":  "image",
	}
)

// FindProperties returns the known units mentioned in text. A unit matches
// when its building and unit appear in either order, optionally joined by
// "unit" or "#".
func FindProperties(text string, units [][2]string) []PropertyRef {
	lower := strings.ToLower(text)
	var found []PropertyRef
	seen := map[PropertyRef]bool{}

	for _, u := range units {
		b := regexp.QuoteMeta(strings.ToLower(u[0]))
		n := regexp.QuoteMeta(strings.ToLower(u[1]))
		if b == "" || n == "" {
			continue
		}
		patterns := []string{
			b + `.*` + n,
			b + `.*unit.*` + n,
			b + `.*#` + n,
			`unit.*` + n + `.*` + b,
			n + `.*` + b,
		}
		for _, p := range patterns {
			re, err := regexp.Compile(`(?s)` + p)
			if err != nil || !re.MatchString(lower) {
				continue
			}
			ref := PropertyRef{Building: u[0], Unit: u[1]}
			if !seen[ref] {
				seen[ref] = true
				found = append(found, ref)
			}
			break
		}
	}
	return found
}

// ExtractContactInfo returns the first email and valid phone number in text
func ExtractContactInfo(text string) ContactInfo {
	var info ContactInfo
	if email := emailPattern.FindString(text); email != "" {
		info.Email = email
	}
	if phones := phone.Find(text, phone.DefaultRegion); len(phones) > 0 {
		info.Phone = phones[0]
	}
	return info
}

// ExtractPrice returns the first price mentioned in text. Thousands
// separators are ignored and million or k suffixes scale the amount.
func ExtractPrice(text string) (float64, bool) {
	clean := strings.ReplaceAll(text, ",", "")
	for _, p := range pricePatterns {
		m := p.re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		multiplier := p.multiplier
		if multiplier == 0 {
			multiplier = suffixMultiplier(m[2])
		}
		return v * multiplier, true
	}
	return 0, false
}

func suffixMultiplier(suffix string) float64 {
	switch strings.ToLower(suffix) {
	case "million", "m":
		return 1_000_000
	case "k":
		return 1_000
	default:
		return 1
	}
}

// ExtractKeyTerms returns the real-estate vocabulary present in content
func ExtractKeyTerms(content string) []string {
	lower := strings.ToLower(content)
	var terms []string
	for _, term := range realEstateTerms {
		if strings.Contains(lower, term) {
			terms = append(terms, term)
			if len(terms) == MaxKeyTerms {
				break
			}
		}
	}
	return terms
}

// ContentType classifies a file extension
func ContentType(ext string) string {
	if t, ok := contentTypes[strings.TrimPrefix(strings.ToLower(ext), ".")]; ok {
		return t
	}
	return "unknown"
}

// Metadata collects the entities found in a document
func Metadata(content, filename string, units [][2]string, now time.Time) map[string]any {
	meta := map[string]any{
		"filename":        filename,
		"word_count":      len(strings.Fields(content)),
		"char_count":      len([]rune(content)),
		"extraction_date": models.FormatTimestamp(now),
	}
	if props := FindProperties(content, units); len(props) > 0 {
		meta["properties_mentioned"] = props
	}
	if info := ExtractContactInfo(content); info != (ContactInfo{}) {
		meta["contact_info"] = info
	}
	if price, ok := ExtractPrice(content); ok && price > 0 {
		meta["price_mentioned"] = price
	}
	if terms := ExtractKeyTerms(content); len(terms) > 0 {
		meta["key_terms"] = terms
	}
	return meta
}
