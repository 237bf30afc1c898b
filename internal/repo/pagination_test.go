package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	ptr := func(v int) *int { return &v }

	tests := []struct {
		name          string
		offset, limit *int
		want          []int
	}{
		{"all", nil, nil, []int{1, 2, 3, 4, 5}},
		{"limit", nil, ptr(2), []int{1, 2}},
		{"offset", ptr(3), nil, []int{4, 5}},
		{"window", ptr(1), ptr(3), []int{2, 3, 4}},
		{"limit past end", ptr(4), ptr(10), []int{5}},
		{"offset past end", ptr(5), ptr(1), []int{}},
		{"negative offset", ptr(-2), ptr(1), []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, page(items, tt.offset, tt.limit))
		})
	}
}

func TestPageLimit(t *testing.T) {
	ptr := func(v int) *int { return &v }

	assert.Equal(t, defaultLimit, pageLimit(nil))
	assert.Equal(t, defaultLimit, pageLimit(ptr(0)))
	assert.Equal(t, 7, pageLimit(ptr(7)))
	assert.Equal(t, defaultLimit, pageLimit(ptr(defaultLimit+50)))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%birkin%", containsPattern("birkin"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%H\_1%`, containsPattern("H_1"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
