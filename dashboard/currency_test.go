package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := map[int64]string{
		0:         "$0.00",
		5:         "$0.05",
		4995:      "$49.95",
		123456:    "$1,234.56",
		-100:      "-$1.00",
		100000000: "$1,000,000.00",
	}
	for cents, want := range tests {
		assert.Equal(t, want, FormatCurrency(cents), cents)
	}
}

func TestAmountCents(t *testing.T) {
	assert.Equal(t, int64(4995), AmountToCents(49.95))
	assert.Equal(t, int64(1), AmountToCents(0.005))
	assert.Equal(t, int64(29), AmountToCents(0.29))
	assert.InDelta(t, 49.95, CentsToAmount(4995), 1e-9)
}
