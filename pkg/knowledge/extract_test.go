package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testUnits = [][2]string{
	{"Palm Tower", "3401"},
	{"Marina Residences", "1205"},
	{"A+B (Tower)", "1"},
}

func TestFindProperties(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []PropertyRef
	}{
		{
			name: "building then unit",
			text: "Client viewed Palm Tower unit 3401 yesterday",
			want: []PropertyRef{{"Palm Tower", "3401"}},
		},
		{
			name: "unit then building",
			text: "Unit 1205 at MARINA RESIDENCES is back on the market",
			want: []PropertyRef{{"Marina Residences", "1205"}},
		},
		{
			name: "regex characters in building name",
			text: "Offer received for A+B (Tower) #1",
			want: []PropertyRef{{"A+B (Tower)", "1"}},
		},
		{
			name: "several units",
			text: "Compare Palm Tower 3401 with Marina Residences 1205",
			want: []PropertyRef{{"Palm Tower", "3401"}, {"Marina Residences", "1205"}},
		},
		{
			name: "no mention",
			text: "General market update",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindProperties(tt.text, testUnits))
		})
	}
}

func TestExtractContactInfo(t *testing.T) {
	info := ExtractContactInfo("Reach Sara at sara.k@example.ae or +971 55 987 6543 after 5pm")
	assert.Equal(t, ContactInfo{Email: "sara.k@example.ae", Phone: "+971559876543"}, info)

	assert.Equal(t, ContactInfo{}, ExtractContactInfo("nothing useful"))
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"Asking AED 2,500,000 negotiable", 2500000, true},
		{"Listed at 1,950,000 AED", 1950000, true},
		{"Owner wants AED 3.2M", 3200000, true},
		{"Budget around 1.8 million", 1800000, true},
		{"Can stretch to 850k", 850000, true},
		{"Deposit $ 12,000 paid", 12000, true},
		{"No figures here", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractPrice(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestExtractKeyTerms(t *testing.T) {
	terms := ExtractKeyTerms("Furnished villa with pool and garden view in Palm Jumeirah")
	assert.Equal(t, []string{"villa", "pool", "garden", "view", "furnished", "palm jumeirah"}, terms)

	all := ExtractKeyTerms(strings.Join(realEstateTerms, " "))
	assert.Len(t, all, MaxKeyTerms)
	assert.Equal(t, "apartment", all[0])
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "document", ContentType("pdf"))
	assert.Equal(t, "spreadsheet", ContentType(".XLSX"))
	assert.Equal(t, "data", ContentType("json"))
	assert.Equal(t, "unknown", ContentType("exe"))
}
