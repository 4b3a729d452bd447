package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeasons(t *testing.T) {
	tests := []struct {
		name  string
		lists []string
		want  []Season
	}{
		{"none", nil, nil},
		{"blank", []string{""}, nil},
		{"comma list", []string{"1, 3"}, []Season{Spring, Fall}},
		{"repeated", []string{"2", "4"}, []Season{Summer, Winter}},
		{"mixed", []string{"1,", "2,3"}, []Season{Spring, Summer, Fall}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeasons(tt.lists...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSeasonsRejectsNames(t *testing.T) {
	_, err := ParseSeasons("1,winter")
	assert.ErrorContains(t, err, `invalid season "winter"`)
}

func TestSeasonString(t *testing.T) {
	assert.Equal(t, "Fall", Fall.String())
	assert.Equal(t, "Season 0", Season(0).String())
}
