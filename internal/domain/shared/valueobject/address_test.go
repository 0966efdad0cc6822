package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		FirstName:    "John",
		LastName:     "Doe",
		AddressLine1: "123 Main St",
		City:         "Mumbai",
		State:        "MH",
		PostalCode:   "400001",
		Country:      "IN",
		Phone:        "+911234567890",
	}
}

func TestAddressValidate(t *testing.T) {
	t.Run("valid address", func(t *testing.T) {
		assert.NoError(t, validAddress().Validate())
	})

	t.Run("missing required fields", func(t *testing.T) {
		cases := map[string]func(*Address){
			"first name":  func(a *Address) { a.FirstName = "" },
			"line 1":      func(a *Address) { a.AddressLine1 = " " },
			"city":        func(a *Address) { a.City = "" },
			"postal code": func(a *Address) { a.PostalCode = "" },
			"country":     func(a *Address) { a.Country = "" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				a := validAddress()
				mutate(&a)
				assert.Error(t, a.Validate())
			})
		}
	})
}

func TestAddressFullName(t *testing.T) {
	a := validAddress()
	assert.Equal(t, "John Doe", a.FullName())

	a.LastName = ""
	assert.Equal(t, "John", a.FullName())
}

func TestAddressOneLine(t *testing.T) {
	a := validAddress()
	assert.Equal(t, "123 Main St, Mumbai, MH, 400001, IN", a.OneLine())
}

func TestAddressValueScan(t *testing.T) {
	a := validAddress()

	v, err := a.Value()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, a, decoded)

	t.Run("empty address stores NULL", func(t *testing.T) {
		v, err := Address{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan nil yields empty", func(t *testing.T) {
		var a Address
		require.NoError(t, a.Scan(nil))
		assert.True(t, a.IsEmpty())
	})
}

func TestAddressJSONShape(t *testing.T) {
	data, err := json.Marshal(validAddress())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"address_line_1":"123 Main St"`)
	assert.NotContains(t, string(data), "company")
}
