package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLeadStatus(t *testing.T) {
	tests := map[string]string{
		"Hot":      StatusHot,
		" warm ":   StatusWarm,
		"COLD":     StatusCold,
		"":         StatusCold,
		"lukewarm": StatusCold,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLeadStatus(in), "input %q", in)
	}
}
