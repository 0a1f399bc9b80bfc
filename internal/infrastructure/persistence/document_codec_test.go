package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shipdocs/backend/internal/domain/shipping"
)

// roundTripBSON encodes a record and decodes it the way the mongo client is configured to
func roundTripBSON(t *testing.T, record map[string]any) bson.M {
	t.Helper()
	data, err := bson.Marshal(record)
	require.NoError(t, err)

	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	require.NoError(t, err)
	dec.DefaultDocumentM()

	var out bson.M
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestDecodeMongoRecord_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC)
	doc := fullDocument("DOC-7", created)

	oid := primitive.NewObjectID()
	record := doc.Flatten()
	record["_id"] = oid

	decoded, err := decodeMongoRecord(roundTripBSON(t, record))
	require.NoError(t, err)

	assert.Equal(t, oid.Hex(), decoded.ID)
	assert.Equal(t, "DOC-7", decoded.DocumentNumber)
	assert.True(t, created.Equal(decoded.CreatedAt))
	require.NotNil(t, decoded.Truck.Axles)
	assert.Equal(t, 4, *decoded.Truck.Axles)
	require.NotNil(t, decoded.IsNegotiable)
	assert.False(t, *decoded.IsNegotiable)
	require.Len(t, decoded.CargoItems, 3)
	assert.Equal(t, "Steel", decoded.CargoItems[1].Description)
	assert.Equal(t, float64(7), decoded.CargoItems[1].Weight)
	assert.Equal(t, shipping.UnitTon, decoded.CargoItems[1].Unit)
}

func TestDecodeMongoRecord_Int32Axles(t *testing.T) {
	record := bson.M{
		"_id":                      primitive.NewObjectID(),
		shipping.FieldTruckAxles:   int32(6),
		shipping.FieldCargoItems:   primitive.A{bson.M{"description": "Rice", "quantity": int32(20)}},
		shipping.FieldCreatedAt:    primitive.NewDateTimeFromTime(time.Unix(1700000000, 0)),
		shipping.FieldIsNegotiable: true,
	}

	doc, err := decodeMongoRecord(record)
	require.NoError(t, err)
	require.NotNil(t, doc.Truck.Axles)
	assert.Equal(t, 6, *doc.Truck.Axles)
	require.Len(t, doc.CargoItems, 1)
	assert.Equal(t, float64(20), doc.CargoItems[0].Quantity)
	assert.Equal(t, int64(1700000000), doc.CreatedAt.Unix())
	assert.True(t, *doc.IsNegotiable)
}

func TestDecodeMongoRecord_MalformedCargo(t *testing.T) {
	_, err := decodeMongoRecord(bson.M{
		"_id":                    primitive.NewObjectID(),
		shipping.FieldCargoItems: "not a list",
	})
	require.Error(t, err)
}

func TestValidFirestoreID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"Xq3mP0aZ9kLw2Rt7", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, validFirestoreID(tt.id))
		})
	}
}
