package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchFiltersEmpty(t *testing.T) {
	assert.True(t, MatchFilters{}.Empty())
	assert.False(t, MatchFilters{Query: "ad"}.Empty())
	assert.False(t, MatchFilters{BloodType: "O+"}.Empty())
	assert.False(t, MatchFilters{Location: "Lagos"}.Empty())
}
