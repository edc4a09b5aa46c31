package mongo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type priced struct {
	Price decimal.Decimal `bson:"price"`
}

func TestDecimalCodec_StoresDecimal128(t *testing.T) {
	reg := NewRegistry()

	data, err := bson.MarshalWithRegistry(reg, priced{Price: decimal.RequireFromString("149.95")})
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, bsontype.Decimal128, raw.Lookup("price").Type)

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
	assert.True(t, out.Price.Equal(decimal.RequireFromString("149.95")), "got %s", out.Price)
}

func TestDecimalCodec_DecodesLegacyNumericTypes(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"string", bson.M{"price": "100.50"}, "100.5"},
		{"double", bson.M{"price": 12.25}, "12.25"},
		{"int32", bson.M{"price": int32(80)}, "80"},
		{"int64", bson.M{"price": int64(90)}, "90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := bson.Marshal(tt.doc)
			require.NoError(t, err)

			var out priced
			require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
			assert.True(t, out.Price.Equal(decimal.RequireFromString(tt.want)), "got %s", out.Price)
		})
	}
}

func TestDecimalCodec_RejectsUnsupportedType(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": true})
	require.NoError(t, err)

	var out priced
	assert.Error(t, bson.UnmarshalWithRegistry(NewRegistry(), data, &out))
}
