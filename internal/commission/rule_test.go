package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountForProject(t *testing.T) {
	cases := []struct {
		title string
		want  float64
	}{
		{"Vente", 100},
		{"Gestion", 100},
		{"Location & Gestion", 100},
		{"Syndic", 100},
		{"Ona Entreprises", 100},
		{"Recrutement", 500},
		{"  recrutement  ", 500},
		{"VENTE", 100},
		{"Achat", 0},
		{"Location", 0},
		{"", 0},
		{"   ", 0},
		{"Projet inconnu", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountForProject(tc.title), "title %q", tc.title)
	}
}
