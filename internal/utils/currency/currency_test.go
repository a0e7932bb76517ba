package currency

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100.456", "100.46"},
		{"100.454", "100.45"},
		{"100.455", "100.46"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"12", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, d(tt.want).Equal(Round(d(tt.in))), "got %s", Round(d(tt.in)))
		})
	}
}

func TestArithmeticAvoidsFloatDrift(t *testing.T) {
	// 0.1 + 0.2 is the classic float64 failure.
	assert.True(t, d("0.3").Equal(Add(d("0.1"), d("0.2"))))
	assert.True(t, d("0.7").Equal(Sub(d("1.0"), d("0.3"))))
	assert.True(t, d("33.33").Equal(Mul(d("100.01"), d("0.3333"))))

	q, err := Div(d("100"), d("3"))
	require.NoError(t, err)
	assert.True(t, d("33.33").Equal(q))

	_, err = Div(d("1"), decimal.Zero)
	assert.Error(t, err)

	assert.True(t, d("60.01").Equal(Sum(d("10.004"), d("20.003"), d("30.003"))))
}

func TestClampAndCompare(t *testing.T) {
	assert.True(t, ClampZero(d("-5")).IsZero())
	assert.True(t, d("5").Equal(ClampZero(d("5"))))
	assert.True(t, d("1").Equal(Min(d("1"), d("2"))))

	assert.True(t, Equal(d("100"), d("100.009")))
	assert.False(t, Equal(d("100"), d("100.01")))
	assert.False(t, Equal(d("99.99"), d("100")))
	assert.True(t, IsZero(d("0.004")))
	assert.False(t, IsPositive(d("0.004")))
	assert.True(t, IsPositive(d("0.01")))
	assert.True(t, GreaterOrEqual(d("99.995"), d("100")))
	assert.False(t, GreaterOrEqual(d("99.98"), d("100")))
}

func TestFromFloatAndParse(t *testing.T) {
	v, err := FromFloat(100.456)
	require.NoError(t, err)
	assert.Equal(t, "100.46", Format(v))

	_, err = FromFloat(math.NaN())
	assert.Error(t, err)
	_, err = FromFloat(math.Inf(1))
	assert.Error(t, err)

	v, err = Parse("12.3")
	require.NoError(t, err)
	assert.Equal(t, "12.30", Format(v))

	_, err = Parse("twelve")
	assert.Error(t, err)

	assert.Equal(t, "12.346", FormatWithPrecision(d("12.3456"), 3))
}
