package shipping

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// ActionKind is what a form submission asks for
type ActionKind string

const (
	ActionSave       ActionKind = "save"
	ActionAddItem    ActionKind = "add_item"
	ActionRemoveItem ActionKind = "remove_item"
)

// FormAction is the parsed value of the submit button that was pressed
type FormAction struct {
	Kind  ActionKind
	Index int
}

// ParseAction reads "save", "add_item" or "remove_item:<i>". Anything else saves,
// which is what pressing Enter in a text field does.
func ParseAction(value string) FormAction {
	value = strings.TrimSpace(value)
	switch {
	case value == string(ActionAddItem):
		return FormAction{Kind: ActionAddItem}
	case strings.HasPrefix(value, string(ActionRemoveItem)+":"):
		i, err := strconv.Atoi(strings.TrimPrefix(value, string(ActionRemoveItem)+":"))
		if err != nil || i < 0 {
			return FormAction{Kind: ActionSave}
		}
		return FormAction{Kind: ActionRemoveItem, Index: i}
	default:
		return FormAction{Kind: ActionSave}
	}
}

// FormSubmission is one POST of the new-document form
type FormSubmission struct {
	Input  DocumentInput
	Action FormAction
}

// Draft returns the document being edited, before defaults or validation
func (f FormSubmission) Draft() *shipping.ShippingDocument {
	return f.Input.ToDocument()
}

// Apply performs an add or remove action on the draft and reports whether the
// form should be shown again instead of saved. The list never drops below one row.
func (f FormSubmission) Apply(draft *shipping.ShippingDocument) bool {
	switch f.Action.Kind {
	case ActionAddItem:
		draft.CargoItems = append(draft.CargoItems, shipping.NewCargoItem())
		return true
	case ActionRemoveItem:
		if len(draft.CargoItems) > 1 && f.Action.Index < len(draft.CargoItems) {
			draft.CargoItems = append(draft.CargoItems[:f.Action.Index], draft.CargoItems[f.Action.Index+1:]...)
		}
		return true
	default:
		return false
	}
}

// ParseForm decodes a form-urlencoded submission. Cargo rows arrive as
// cargo_items[<i>][<field>] and are kept in index order.
func ParseForm(values url.Values) FormSubmission {
	in := DocumentInput{
		DocumentNumber:      values.Get("document_number"),
		LicenseNumber:       values.Get("license_number"),
		Status:              values.Get("status"),
		ReceiptDate:         values.Get("receipt_date"),
		ExitDate:            values.Get("exit_date"),
		DepartureDate:       values.Get("departure_date"),
		IsNegotiable:        parseTriState(values.Get(shipping.FieldIsNegotiable)),
		CargoDocumentNumber: values.Get("cargo_document_number"),

		CarrierName:    values.Get("carrier_name"),
		CarrierPhone:   values.Get("carrier_phone"),
		CarrierNotes:   values.Get("carrier_notes"),
		CarrierEmail:   values.Get("carrier_email"),
		CarrierLicense: values.Get("carrier_license"),

		DriverName:        values.Get("driver_name"),
		DriverIDNumber:    values.Get("driver_id_number"),
		DriverIDType:      values.Get("driver_id_type"),
		DriverNationality: values.Get("driver_nationality"),
		DriverBirthDate:   values.Get("driver_birth_date"),
		DriverPhone:       values.Get("driver_phone"),
		DriverCity:        values.Get("driver_city"),

		TruckCountry:            values.Get("truck_country"),
		TruckCity:               values.Get("truck_city"),
		TruckPlateNumber:        values.Get("truck_plate_number"),
		TruckPlateCode:          values.Get("truck_plate_code"),
		TruckClassificationCode: values.Get("truck_classification_code"),
		TruckColor:              values.Get("truck_color"),
		TruckType:               values.Get("truck_type"),
		TruckAxles:              parseOptionalInt(values.Get(shipping.FieldTruckAxles)),
		TruckEnginePower:        values.Get("truck_engine_power"),

		RouteFromCity:    values.Get("route_from_city"),
		RouteFromCountry: values.Get("route_from_country"),
		RouteToCity:      values.Get("route_to_city"),
		RouteToCountry:   values.Get("route_to_country"),

		SenderName:    values.Get("sender_name"),
		SenderAddress: values.Get("sender_address"),
		SenderCity:    values.Get("sender_city"),
		SenderCountry: values.Get("sender_country"),
		SenderPhone:   values.Get("sender_phone"),
		SenderNotes:   values.Get("sender_notes"),

		RecipientName:    values.Get("recipient_name"),
		RecipientAddress: values.Get("recipient_address"),
		RecipientCity:    values.Get("recipient_city"),
		RecipientCountry: values.Get("recipient_country"),
		RecipientPhone:   values.Get("recipient_phone"),
		RecipientNotes:   values.Get("recipient_notes"),

		PaymentBy:           values.Get("payment_by"),
		PaymentMethod:       values.Get("payment_method"),
		PaymentInstructions: values.Get("payment_instructions"),

		CargoItems: parseCargoRows(values),
	}
	return FormSubmission{Input: in, Action: ParseAction(values.Get("action"))}
}

func parseCargoRows(values url.Values) []CargoItemInput {
	rows := map[int]*CargoItemInput{}
	prefix := shipping.FieldCargoItems + "["
	for key := range values {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		idx, field, ok := strings.Cut(strings.TrimSuffix(strings.TrimPrefix(key, prefix), "]"), "][")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 {
			continue
		}
		row, exists := rows[i]
		if !exists {
			row = &CargoItemInput{}
			rows[i] = row
		}
		value := values.Get(key)
		switch field {
		case "description":
			row.Description = value
		case "quantity":
			row.Quantity = parseNumber(value)
		case "weight":
			row.Weight = parseNumber(value)
		case "unit":
			row.Unit = value
		case "dimensions":
			row.Dimensions = value
		case "status":
			row.Status = value
		}
	}

	indices := make([]int, 0, len(rows))
	for i := range rows {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	items := make([]CargoItemInput, 0, len(indices))
	for _, i := range indices {
		items = append(items, *rows[i])
	}
	return items
}

// parseNumber reads a numeric input; blank or malformed input counts as zero
func parseNumber(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// parseTriState maps the select values "", "true" and "false"
func parseTriState(s string) *bool {
	switch strings.TrimSpace(s) {
	case "true":
		return shipping.BoolPtr(true)
	case "false":
		return shipping.BoolPtr(false)
	default:
		return nil
	}
}
