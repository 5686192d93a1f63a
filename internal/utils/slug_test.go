package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Employment Law":          "employment-law",
		"Property & Conveyancing": "property-and-conveyancing",
		"  Wills/Probate  ":       "wills-probate",
		"Tenant's Rights!":        "tenants-rights",
		"---":                     "",
		"Dlí Teaghlaigh":          "dli-teaghlaigh",
		"Ó Súilleabháin v. State": "o-suilleabhain-v-state",
		"Clients’ Guide":          "clients-guide",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
