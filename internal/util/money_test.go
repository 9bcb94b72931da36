package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCents(t *testing.T) {
	assert.Equal(t, int64(37), Cents(0.37))
	assert.Equal(t, int64(4000), Cents(40))
	assert.Equal(t, int64(10), Cents(0.1))
}

func TestRoundCentsHalfUp(t *testing.T) {
	assert.Equal(t, int64(93), RoundCents(92.5))
	assert.Equal(t, int64(92), RoundCents(92.4))
	assert.Equal(t, int64(148), RoundCents(148.0))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.37", FormatUSD(37))
	assert.Equal(t, "$22.20", FormatUSD(2220))
	assert.Equal(t, "$232.50", FormatUSD(23250))
}
