package anki_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/ankibridge/internal/anki"
	"github.com/vytor/ankibridge/internal/models"
)

func TestParseDeckCounts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *models.DeckCounts
	}{
		{name: "learn review new order", raw: "[3,5,7]", want: &models.DeckCounts{LearnCount: 3, ReviewCount: 5, NewCount: 7}},
		{name: "padded", raw: "  [ 1 , 2 , 3 ]  ", want: &models.DeckCounts{LearnCount: 1, ReviewCount: 2, NewCount: 3}},
		{name: "zeros", raw: "[0,0,0]", want: &models.DeckCounts{}},
		{name: "two elements", raw: "[3,5]", want: nil},
		{name: "four elements", raw: "[1,2,3,4]", want: nil},
		{name: "non integer", raw: "[a,5,7]", want: nil},
		{name: "no brackets", raw: "3,5,7", want: nil},
		{name: "missing closing bracket", raw: "[3,5,7", want: nil},
		{name: "empty brackets", raw: "[]", want: nil},
		{name: "empty", raw: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anki.ParseDeckCounts(tt.raw))
		})
	}
}
