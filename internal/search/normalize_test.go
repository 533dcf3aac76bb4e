package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"Wipes", "wipes"},
		{"Désodorisant", "desodorisant"},
		{"  Snow \t Foam\n", "snow foam"},
		{"FRAÎCHEUR", "fraicheur"},
		{"Pare-Brise", "pare-brise"},
		{"Crème   Brûlée", "creme brulee"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"Désodorisant Cuir", "  A  b ", "pneus+jantes"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalize_PrecomposedAndDecomposedAgree(t *testing.T) {
	precomposed := "\u00e9"
	decomposed := "e\u0301"
	assert.Equal(t, Normalize(precomposed), Normalize(decomposed))
	assert.Equal(t, "e", Normalize(decomposed))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"---", nil},
		{"Snow Foam", []string{"snow", "foam"}},
		{"air-freshener", []string{"air", "freshener"}},
		{"Lingettes, x2!", []string{"lingettes", "x2"}},
		{"c++ wax", []string{"c++", "wax"}},
		{"Pneu/Jante", []string{"pneu", "jante"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.in), "Tokenize(%q)", tt.in)
	}
}
