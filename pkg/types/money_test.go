package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMoneyUnmarshalJSONAcceptsNumbersAndNumericStrings(t *testing.T) {
	cases := map[string]string{
		`12.5`:    "12.5",
		`"12.5"`:  "12.5",
		`0`:       "0",
		`"1099"`:  "1099",
		`-3.25`:   "-3.25",
		`"  7 "`:  "",
		`null`:    "0",
	}

	for in, want := range cases {
		var m Money
		err := json.Unmarshal([]byte(in), &m)
		if want == "" {
			assert.ErrorIs(t, err, ErrMalformedNumeric, in)
			continue
		}
		require.NoError(t, err, in)
		assert.Equal(t, want, m.String(), in)
	}
}

func TestMoneyUnmarshalJSONRejectsNonNumeric(t *testing.T) {
	for _, in := range []string{`"abc"`, `"12,50"`, `true`, `{}`, `""`} {
		var m Money
		assert.ErrorIs(t, json.Unmarshal([]byte(in), &m), ErrMalformedNumeric, in)
	}
}

func TestMoneyMarshalJSONEmitsBareNumber(t *testing.T) {
	m, err := MoneyFromString("19.99")
	require.NoError(t, err)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "19.99", string(b))
}

func TestMoneyBSONRoundTrip(t *testing.T) {
	type doc struct {
		Price Money `bson:"price"`
	}

	raw, err := bson.Marshal(doc{Price: MoneyFromFloat(42.5)})
	require.NoError(t, err)

	var got doc
	require.NoError(t, bson.Unmarshal(raw, &got))
	assert.Equal(t, "42.5", got.Price.String())
}

func TestMoneyBSONCoercesNumericTypes(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"price": int64(250)})
	require.NoError(t, err)

	var got struct {
		Price Money `bson:"price"`
	}
	require.NoError(t, bson.Unmarshal(raw, &got))
	assert.Equal(t, "250", got.Price.String())

	raw, err = bson.Marshal(bson.M{"price": 9.75})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(raw, &got))
	assert.Equal(t, "9.75", got.Price.String())
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := MoneyFromString("10.50")
	b, _ := MoneyFromString("4.25")

	assert.Equal(t, "14.75", a.Add(b).String())
	assert.Equal(t, "31.5", a.MulInt(3).String())
	assert.True(t, MoneyFromInt(0).IsZero())
	assert.True(t, MoneyFromFloat(-1).IsNegative())
}
