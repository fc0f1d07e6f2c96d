package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revenueRow struct {
	Month   string `db:"month"`
	Revenue int64  `db:"revenue"`
}

func TestDecode(t *testing.T) {
	rows := []Row{
		{"month": "Jan", "revenue": int64(2000)},
		{"month": "Feb", "revenue": "1800"},
	}
	out, err := Decode[revenueRow](rows)
	require.NoError(t, err)
	assert.Equal(t, []revenueRow{{"Jan", 2000}, {"Feb", 1800}}, out)
}

func TestDecode_Empty(t *testing.T) {
	out, err := Decode[revenueRow](nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDecodeOne_BadValue(t *testing.T) {
	_, err := DecodeOne[revenueRow](Row{"month": "Jan", "revenue": "lots"})
	require.Error(t, err)
}
