package shipping

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() ShippingDocument {
	return ShippingDocument{
		ID:                  "doc-1",
		DocumentNumber:      "DOC-001",
		LicenseNumber:       "LIC-9",
		Status:              StatusInProgress,
		ReceiptDate:         "2025-01-02",
		IsNegotiable:        BoolPtr(false),
		CargoDocumentNumber: "CM-3",
		Carrier:             Carrier{Name: "Fast Haul", Notes: "fragile"},
		Driver:              Driver{Name: "Omar", IDType: DriverIDPassport, City: "Jeddah"},
		Truck:               Truck{PlateNumber: "ABC 123", Axles: IntPtr(3), EnginePower: "450hp"},
		Route:               Route{FromCity: "Riyadh", ToCity: "Amman"},
		Sender:              Party{Name: "S", City: "Riyadh"},
		Recipient:           Party{Name: "R", Notes: "call first"},
		Payment:             Payment{By: PayerSender, Method: "cash"},
		CargoItems: []CargoItem{
			{Description: "boxes", Quantity: 5, Weight: 100, Unit: UnitTon, Dimensions: "1x1x1", Status: ConditionIntact},
			{Description: "crates", Quantity: 2, Weight: 7.5, Unit: UnitPiece, Status: ConditionDamaged},
		},
		CreatedAt: time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestFlatten_UsesRolePrefixedKeys(t *testing.T) {
	d := sampleDocument()
	m := d.Flatten()

	assert.Equal(t, "S", m["sender_name"])
	assert.Equal(t, "Riyadh", m["sender_city"])
	assert.Equal(t, "R", m["recipient_name"])
	assert.Equal(t, "call first", m["recipient_notes"])
	assert.Equal(t, false, m[FieldIsNegotiable])
	assert.Equal(t, int64(3), m[FieldTruckAxles])
	assert.NotContains(t, m, FieldID)

	items, ok := m[FieldCargoItems].([]map[string]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "boxes", items[0]["description"])
	assert.Equal(t, "crates", items[1]["description"])
}

func TestFlatten_OmitsAbsentOptionalFields(t *testing.T) {
	d := ShippingDocument{DocumentNumber: "X"}
	m := d.Flatten()

	assert.NotContains(t, m, FieldIsNegotiable)
	assert.NotContains(t, m, FieldTruckAxles)
	assert.NotContains(t, m, FieldCreatedAt)
	assert.Equal(t, []map[string]any{}, m[FieldCargoItems])
}

func TestUnflatten_RestoresDocument(t *testing.T) {
	original := sampleDocument()
	restored, err := Unflatten(original.ID, original.Flatten())
	require.NoError(t, err)

	assert.Equal(t, original, restored)
}

func TestUnflatten_CoercesStoreTypes(t *testing.T) {
	created := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	m := map[string]any{
		"document_number": "N-1",
		"truck_axles":     int32(4),
		"is_negotiable":   "true",
		"created_at":      created.Format(time.RFC3339),
		"cargo_items": []any{
			map[string]any{"description": "a", "quantity": int64(3), "weight": "12.5"},
		},
	}

	d, err := Unflatten("id-1", m)
	require.NoError(t, err)

	assert.Equal(t, "id-1", d.ID)
	require.NotNil(t, d.Truck.Axles)
	assert.Equal(t, 4, *d.Truck.Axles)
	require.NotNil(t, d.IsNegotiable)
	assert.True(t, *d.IsNegotiable)
	assert.True(t, created.Equal(d.CreatedAt))
	require.Len(t, d.CargoItems, 1)
	assert.Equal(t, 3.0, d.CargoItems[0].Quantity)
	assert.Equal(t, 12.5, d.CargoItems[0].Weight)
}

type namedMap map[string]interface{}
type namedList []interface{}

func TestUnflatten_AcceptsNamedCollectionTypes(t *testing.T) {
	m := map[string]any{
		"document_number": "N-2",
		"cargo_items":     namedList{namedMap{"description": "pallet", "quantity": 1.0}},
	}

	d, err := Unflatten("id-2", m)
	require.NoError(t, err)
	require.Len(t, d.CargoItems, 1)
	assert.Equal(t, "pallet", d.CargoItems[0].Description)
}

func TestUnflatten_RejectsMalformedCargo(t *testing.T) {
	_, err := Unflatten("x", map[string]any{"cargo_items": "boxes"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = Unflatten("x", map[string]any{"cargo_items": []any{"boxes"}})
	require.Error(t, err)
}

func TestUnflatten_MissingKeysStayEmpty(t *testing.T) {
	d, err := Unflatten("only-id", map[string]any{"document_number": "N"})
	require.NoError(t, err)

	assert.Nil(t, d.IsNegotiable)
	assert.Nil(t, d.Truck.Axles)
	assert.Empty(t, d.Carrier.Name)
	assert.NotNil(t, d.CargoItems)
	assert.Empty(t, d.CargoItems)
}

func TestShippingDocument_JSON(t *testing.T) {
	original := sampleDocument()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "doc-1", flat["id"])
	assert.Equal(t, "DOC-001", flat["document_number"])
	assert.Equal(t, "R", flat["recipient_name"])

	var decoded ShippingDocument
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.CargoItems, decoded.CargoItems)
	assert.Equal(t, original.IsNegotiable, decoded.IsNegotiable)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
}
