package shipping

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shipdocs/backend/internal/domain/shared"
)

// Record keys that other packages query on
const (
	FieldID             = "id"
	FieldDocumentNumber = "document_number"
	FieldCreatedAt      = "created_at"
	FieldUpdatedAt      = "updated_at"
	FieldCargoItems     = "cargo_items"
	FieldIsNegotiable   = "is_negotiable"
	FieldTruckAxles     = "truck_axles"
)

// Flatten converts the document to the flat key/value record shape shared by
// every store and the JSON API. The id is not part of the record; stores keep
// it as the key. Absent tri-state and numeric fields are omitted.
func (d *ShippingDocument) Flatten() map[string]any {
	m := map[string]any{
		FieldDocumentNumber:     d.DocumentNumber,
		"license_number":        d.LicenseNumber,
		"status":                string(d.Status),
		"receipt_date":          d.ReceiptDate,
		"exit_date":             d.ExitDate,
		"departure_date":        d.DepartureDate,
		"cargo_document_number": d.CargoDocumentNumber,

		"carrier_name":    d.Carrier.Name,
		"carrier_phone":   d.Carrier.Phone,
		"carrier_notes":   d.Carrier.Notes,
		"carrier_email":   d.Carrier.Email,
		"carrier_license": d.Carrier.License,

		"driver_name":        d.Driver.Name,
		"driver_id_number":   d.Driver.IDNumber,
		"driver_id_type":     string(d.Driver.IDType),
		"driver_nationality": d.Driver.Nationality,
		"driver_birth_date":  d.Driver.BirthDate,
		"driver_phone":       d.Driver.Phone,
		"driver_city":        d.Driver.City,

		"truck_country":             d.Truck.Country,
		"truck_city":                d.Truck.City,
		"truck_plate_number":        d.Truck.PlateNumber,
		"truck_plate_code":          d.Truck.PlateCode,
		"truck_classification_code": d.Truck.ClassificationCode,
		"truck_color":               d.Truck.Color,
		"truck_type":                d.Truck.Type,
		"truck_engine_power":        d.Truck.EnginePower,

		"route_from_city":    d.Route.FromCity,
		"route_from_country": d.Route.FromCountry,
		"route_to_city":      d.Route.ToCity,
		"route_to_country":   d.Route.ToCountry,

		"payment_by":           string(d.Payment.By),
		"payment_method":       d.Payment.Method,
		"payment_instructions": d.Payment.Instructions,
	}

	flattenParty(m, RoleSender, d.Sender)
	flattenParty(m, RoleRecipient, d.Recipient)

	if d.IsNegotiable != nil {
		m[FieldIsNegotiable] = *d.IsNegotiable
	}
	if d.Truck.Axles != nil {
		m[FieldTruckAxles] = int64(*d.Truck.Axles)
	}

	items := make([]map[string]any, 0, len(d.CargoItems))
	for _, item := range d.CargoItems {
		items = append(items, item.Flatten())
	}
	m[FieldCargoItems] = items

	if !d.CreatedAt.IsZero() {
		m[FieldCreatedAt] = d.CreatedAt
	}
	if !d.UpdatedAt.IsZero() {
		m[FieldUpdatedAt] = d.UpdatedAt
	}
	return m
}

// Flatten converts the cargo line to its flat record shape
func (c CargoItem) Flatten() map[string]any {
	return map[string]any{
		"description": c.Description,
		"quantity":    c.Quantity,
		"weight":      c.Weight,
		"unit":        string(c.Unit),
		"dimensions":  c.Dimensions,
		"status":      string(c.Status),
	}
}

func flattenParty(m map[string]any, role PartyRole, p Party) {
	prefix := string(role) + "_"
	m[prefix+"name"] = p.Name
	m[prefix+"address"] = p.Address
	m[prefix+"city"] = p.City
	m[prefix+"country"] = p.Country
	m[prefix+"phone"] = p.Phone
	m[prefix+"notes"] = p.Notes
}

// Unflatten builds a document from a flat record. Stores decode numbers and
// timestamps differently, so scalar values are coerced leniently; only a
// structurally wrong cargo_items value is rejected.
func Unflatten(id string, m map[string]any) (ShippingDocument, error) {
	d := ShippingDocument{
		ID:                  id,
		DocumentNumber:      asString(m[FieldDocumentNumber]),
		LicenseNumber:       asString(m["license_number"]),
		Status:              Status(asString(m["status"])),
		ReceiptDate:         asString(m["receipt_date"]),
		ExitDate:            asString(m["exit_date"]),
		DepartureDate:       asString(m["departure_date"]),
		IsNegotiable:        asBoolPtr(m[FieldIsNegotiable]),
		CargoDocumentNumber: asString(m["cargo_document_number"]),
		Carrier: Carrier{
			Name:    asString(m["carrier_name"]),
			Phone:   asString(m["carrier_phone"]),
			Notes:   asString(m["carrier_notes"]),
			Email:   asString(m["carrier_email"]),
			License: asString(m["carrier_license"]),
		},
		Driver: Driver{
			Name:        asString(m["driver_name"]),
			IDNumber:    asString(m["driver_id_number"]),
			IDType:      DriverIDType(asString(m["driver_id_type"])),
			Nationality: asString(m["driver_nationality"]),
			BirthDate:   asString(m["driver_birth_date"]),
			Phone:       asString(m["driver_phone"]),
			City:        asString(m["driver_city"]),
		},
		Truck: Truck{
			Country:            asString(m["truck_country"]),
			City:               asString(m["truck_city"]),
			PlateNumber:        asString(m["truck_plate_number"]),
			PlateCode:          asString(m["truck_plate_code"]),
			ClassificationCode: asString(m["truck_classification_code"]),
			Color:              asString(m["truck_color"]),
			Type:               asString(m["truck_type"]),
			Axles:              asIntPtr(m[FieldTruckAxles]),
			EnginePower:        asString(m["truck_engine_power"]),
		},
		Route: Route{
			FromCity:    asString(m["route_from_city"]),
			FromCountry: asString(m["route_from_country"]),
			ToCity:      asString(m["route_to_city"]),
			ToCountry:   asString(m["route_to_country"]),
		},
		Sender:    unflattenParty(m, RoleSender),
		Recipient: unflattenParty(m, RoleRecipient),
		Payment: Payment{
			By:           Payer(asString(m["payment_by"])),
			Method:       asString(m["payment_method"]),
			Instructions: asString(m["payment_instructions"]),
		},
		CreatedAt: asTime(m[FieldCreatedAt]),
		UpdatedAt: asTime(m[FieldUpdatedAt]),
	}

	items, err := unflattenCargo(m[FieldCargoItems])
	if err != nil {
		return ShippingDocument{}, err
	}
	d.CargoItems = items
	return d, nil
}

func unflattenParty(m map[string]any, role PartyRole) Party {
	prefix := string(role) + "_"
	return Party{
		Name:    asString(m[prefix+"name"]),
		Address: asString(m[prefix+"address"]),
		City:    asString(m[prefix+"city"]),
		Country: asString(m[prefix+"country"]),
		Phone:   asString(m[prefix+"phone"]),
		Notes:   asString(m[prefix+"notes"]),
	}
}

func unflattenCargo(v any) ([]CargoItem, error) {
	items := []CargoItem{}
	if v == nil {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: cargo_items must be a list, got %T", shared.ErrInvalidInput, v)
	}
	for i := 0; i < rv.Len(); i++ {
		row, ok := asMap(rv.Index(i).Interface())
		if !ok {
			return nil, fmt.Errorf("%w: cargo_items[%d] must be an object", shared.ErrInvalidInput, i)
		}
		items = append(items, CargoItem{
			Description: asString(row["description"]),
			Quantity:    asFloat(row["quantity"]),
			Weight:      asFloat(row["weight"]),
			Unit:        CargoUnit(asString(row["unit"])),
			Dimensions:  asString(row["dimensions"]),
			Status:      CargoCondition(asString(row["status"])),
		})
	}
	return items, nil
}

// MarshalJSON encodes the document in its flat record shape plus the id
func (d ShippingDocument) MarshalJSON() ([]byte, error) {
	m := d.Flatten()
	if d.ID != "" {
		m[FieldID] = d.ID
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a flat record
func (d *ShippingDocument) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	doc, err := Unflatten(asString(m[FieldID]), m)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// asMap accepts map[string]any and named map types such as bson.M
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asIntPtr(v any) *int {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		return &n
	default:
		n := int(asFloat(val))
		return &n
	}
}

func asBoolPtr(v any) *bool {
	switch val := v.(type) {
	case bool:
		return &val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		return &b
	default:
		return nil
	}
}

// asTime understands time.Time, RFC 3339 strings and driver types that expose Time()
func asTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		t, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return time.Time{}
		}
		return t
	case interface{ Time() time.Time }:
		return val.Time()
	default:
		return time.Time{}
	}
}
