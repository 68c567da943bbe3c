package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "zero", in: "0", want: "0"},
		{name: "one whole NEAR in yocto", in: "1000000000000000000000000", want: "1000000000000000000000000"},
		{name: "whitespace trimmed", in: " 42 ", want: "42"},
		{name: "empty", in: "", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "decimal point", in: "1.5", wantErr: true},
		{name: "garbage", in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinorUnits(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFloatToMinorUnits(t *testing.T) {
	scale := ScaleFactor(24)

	// 40.0 whole units -> 40 * 10^24.
	got := FloatToMinorUnits(40.0, scale)
	want, ok := new(big.Int).SetString("40000000000000000000000000", 10)
	require.True(t, ok)
	assert.Zero(t, got.Cmp(want))

	// Truncation drops fractional minor units instead of rounding.
	small := FloatToMinorUnits(1.5, ScaleFactor(0))
	assert.Equal(t, "1", small.String())

	// Degenerate inputs collapse to zero.
	assert.Equal(t, "0", FloatToMinorUnits(0, scale).String())
	assert.Equal(t, "0", FloatToMinorUnits(-3, scale).String())
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "0", FormatMinorUnits(nil))
	assert.Equal(t, "123", FormatMinorUnits(big.NewInt(123)))
}
