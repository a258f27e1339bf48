package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woosuite/woosync/pkg/money"
)

func TestWire(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12", "12.00"},
		{"6.5", "6.50"},
		{"1.7391", "1.74"},
		{"1.745", "1.75"}, // half-up
		{"0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.want, money.Wire(d))
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.00", "12"},
		{"6.50", "6.5"},
		{"1.7391", "1.74"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.want, money.Display(d))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("dot separator", func(t *testing.T) {
		d, ok := money.Parse("6.5")
		require.True(t, ok)
		require.NotNil(t, d)
		assert.True(t, d.Equal(decimal.RequireFromString("6.5")))
	})

	t.Run("comma separator", func(t *testing.T) {
		d, ok := money.Parse("6,5")
		require.True(t, ok)
		require.NotNil(t, d)
		assert.True(t, d.Equal(decimal.RequireFromString("6.5")))
	})

	t.Run("empty is absent not zero", func(t *testing.T) {
		d, ok := money.Parse("   ")
		require.True(t, ok)
		assert.Nil(t, d)
	})

	t.Run("explicit zero is present", func(t *testing.T) {
		d, ok := money.Parse("0")
		require.True(t, ok)
		require.NotNil(t, d)
		assert.True(t, d.IsZero())
	})

	t.Run("garbage is not ok", func(t *testing.T) {
		d, ok := money.Parse("abc")
		assert.False(t, ok)
		assert.Nil(t, d)
	})
}

func TestClamp(t *testing.T) {
	assert.True(t, money.Clamp(decimal.RequireFromString("-3")).IsZero())
	assert.Equal(t, "5", money.Clamp(decimal.RequireFromString("5")).String())
}
