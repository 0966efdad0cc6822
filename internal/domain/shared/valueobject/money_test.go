package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestCurrencyIsValid(t *testing.T) {
	assert.True(t, USD.IsValid())
	assert.True(t, INR.IsValid())
	assert.False(t, Currency("XYZ").IsValid())
	assert.False(t, Currency("").IsValid())
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		a, _ := NewMoneyFromString("10.50", USD)
		b, _ := NewMoneyFromString("4.50", USD)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "15.00", sum.StringFixed(2))
	})

	t.Run("add different currency fails", func(t *testing.T) {
		a, _ := NewMoneyFromString("10.00", USD)
		b, _ := NewMoneyFromString("10.00", INR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("subtract can go negative", func(t *testing.T) {
		a, _ := NewMoneyFromString("5.00", USD)
		b, _ := NewMoneyFromString("7.50", USD)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		price, _ := NewMoneyFromString("29.99", USD)
		total := price.MultiplyByInt(3)
		assert.Equal(t, "89.97", total.StringFixed(2))
	})
}

func TestMoneyComparison(t *testing.T) {
	a, _ := NewMoneyFromString("100.00", INR)
	b, _ := NewMoneyFromString("200.00", INR)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	c, _ := NewMoneyFromString("100.00", USD)
	_, err = a.LessThan(c)
	assert.Error(t, err)

	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(c))
}

func TestMoneyJSON(t *testing.T) {
	m, _ := NewMoneyFromString("49.99", INR)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"49.99","currency":"INR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string amount", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12.34"))
		assert.Equal(t, "12.34", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(struct{}{}))
	})
}

func TestZero(t *testing.T) {
	z := Zero(INR)
	assert.True(t, z.IsZero())
	assert.Equal(t, INR, z.Currency())
}
