package shipping

import (
	"strings"
	"time"

	"github.com/shipdocs/backend/internal/domain/shipping"
	"golang.org/x/text/unicode/norm"
)

// DocumentInput is the flat create request shared by the JSON API and the HTML form
type DocumentInput struct {
	DocumentNumber      string `json:"document_number" binding:"required"`
	LicenseNumber       string `json:"license_number"`
	Status              string `json:"status"`
	ReceiptDate         string `json:"receipt_date"`
	ExitDate            string `json:"exit_date"`
	DepartureDate       string `json:"departure_date"`
	IsNegotiable        *bool  `json:"is_negotiable"`
	CargoDocumentNumber string `json:"cargo_document_number"`

	CarrierName    string `json:"carrier_name"`
	CarrierPhone   string `json:"carrier_phone"`
	CarrierNotes   string `json:"carrier_notes"`
	CarrierEmail   string `json:"carrier_email" binding:"omitempty,email"`
	CarrierLicense string `json:"carrier_license"`

	DriverName        string `json:"driver_name"`
	DriverIDNumber    string `json:"driver_id_number"`
	DriverIDType      string `json:"driver_id_type"`
	DriverNationality string `json:"driver_nationality"`
	DriverBirthDate   string `json:"driver_birth_date"`
	DriverPhone       string `json:"driver_phone"`
	DriverCity        string `json:"driver_city"`

	TruckCountry            string `json:"truck_country"`
	TruckCity               string `json:"truck_city"`
	TruckPlateNumber        string `json:"truck_plate_number"`
	TruckPlateCode          string `json:"truck_plate_code"`
	TruckClassificationCode string `json:"truck_classification_code"`
	TruckColor              string `json:"truck_color"`
	TruckType               string `json:"truck_type"`
	TruckAxles              *int   `json:"truck_axles" binding:"omitempty,min=0"`
	TruckEnginePower        string `json:"truck_engine_power"`

	RouteFromCity    string `json:"route_from_city"`
	RouteFromCountry string `json:"route_from_country"`
	RouteToCity      string `json:"route_to_city"`
	RouteToCountry   string `json:"route_to_country"`

	SenderName    string `json:"sender_name"`
	SenderAddress string `json:"sender_address"`
	SenderCity    string `json:"sender_city"`
	SenderCountry string `json:"sender_country"`
	SenderPhone   string `json:"sender_phone"`
	SenderNotes   string `json:"sender_notes"`

	RecipientName    string `json:"recipient_name"`
	RecipientAddress string `json:"recipient_address"`
	RecipientCity    string `json:"recipient_city"`
	RecipientCountry string `json:"recipient_country"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientNotes   string `json:"recipient_notes"`

	PaymentBy           string `json:"payment_by"`
	PaymentMethod       string `json:"payment_method"`
	PaymentInstructions string `json:"payment_instructions"`

	CargoItems []CargoItemInput `json:"cargo_items" binding:"omitempty,dive"`
}

// CargoItemInput is one cargo line of a create request
type CargoItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" binding:"min=0"`
	Weight      float64 `json:"weight" binding:"min=0"`
	Unit        string  `json:"unit"`
	Dimensions  string  `json:"dimensions"`
	Status      string  `json:"status"`
}

// clean trims and NFC-normalizes user text so visually equal Arabic input compares equal
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ToDocument converts the input to a domain document. Defaults are not applied here.
func (in DocumentInput) ToDocument() *shipping.ShippingDocument {
	doc := &shipping.ShippingDocument{
		DocumentNumber:      clean(in.DocumentNumber),
		LicenseNumber:       clean(in.LicenseNumber),
		Status:              shipping.Status(clean(in.Status)),
		ReceiptDate:         clean(in.ReceiptDate),
		ExitDate:            clean(in.ExitDate),
		DepartureDate:       clean(in.DepartureDate),
		IsNegotiable:        in.IsNegotiable,
		CargoDocumentNumber: clean(in.CargoDocumentNumber),
		Carrier: shipping.Carrier{
			Name:    clean(in.CarrierName),
			Phone:   clean(in.CarrierPhone),
			Notes:   clean(in.CarrierNotes),
			Email:   clean(in.CarrierEmail),
			License: clean(in.CarrierLicense),
		},
		Driver: shipping.Driver{
			Name:        clean(in.DriverName),
			IDNumber:    clean(in.DriverIDNumber),
			IDType:      shipping.DriverIDType(clean(in.DriverIDType)),
			Nationality: clean(in.DriverNationality),
			BirthDate:   clean(in.DriverBirthDate),
			Phone:       clean(in.DriverPhone),
			City:        clean(in.DriverCity),
		},
		Truck: shipping.Truck{
			Country:            clean(in.TruckCountry),
			City:               clean(in.TruckCity),
			PlateNumber:        clean(in.TruckPlateNumber),
			PlateCode:          clean(in.TruckPlateCode),
			ClassificationCode: clean(in.TruckClassificationCode),
			Color:              clean(in.TruckColor),
			Type:               clean(in.TruckType),
			Axles:              in.TruckAxles,
			EnginePower:        clean(in.TruckEnginePower),
		},
		Route: shipping.Route{
			FromCity:    clean(in.RouteFromCity),
			FromCountry: clean(in.RouteFromCountry),
			ToCity:      clean(in.RouteToCity),
			ToCountry:   clean(in.RouteToCountry),
		},
		Sender: shipping.Party{
			Name:    clean(in.SenderName),
			Address: clean(in.SenderAddress),
			City:    clean(in.SenderCity),
			Country: clean(in.SenderCountry),
			Phone:   clean(in.SenderPhone),
			Notes:   clean(in.SenderNotes),
		},
		Recipient: shipping.Party{
			Name:    clean(in.RecipientName),
			Address: clean(in.RecipientAddress),
			City:    clean(in.RecipientCity),
			Country: clean(in.RecipientCountry),
			Phone:   clean(in.RecipientPhone),
			Notes:   clean(in.RecipientNotes),
		},
		Payment: shipping.Payment{
			By:           shipping.Payer(clean(in.PaymentBy)),
			Method:       clean(in.PaymentMethod),
			Instructions: clean(in.PaymentInstructions),
		},
	}

	if in.CargoItems != nil {
		doc.CargoItems = make([]shipping.CargoItem, 0, len(in.CargoItems))
		for _, item := range in.CargoItems {
			doc.CargoItems = append(doc.CargoItems, item.toCargoItem())
		}
	}
	return doc
}

func (in CargoItemInput) toCargoItem() shipping.CargoItem {
	return shipping.CargoItem{
		Description: clean(in.Description),
		Quantity:    in.Quantity,
		Weight:      in.Weight,
		Unit:        shipping.CargoUnit(clean(in.Unit)),
		Dimensions:  clean(in.Dimensions),
		Status:      shipping.CargoCondition(clean(in.Status)),
	}
}

// DocumentResponse is the JSON representation of a stored document.
// The document marshals itself in its flat record shape.
type DocumentResponse = shipping.ShippingDocument

// DocumentSummary is one entry of the JSON listing
type DocumentSummary struct {
	ID             string    `json:"id"`
	DocumentNumber string    `json:"document_number"`
	Status         string    `json:"status"`
	ReceiptDate    string    `json:"receipt_date,omitempty"`
	CarrierName    string    `json:"carrier_name,omitempty"`
	DriverName     string    `json:"driver_name,omitempty"`
	RouteFromCity  string    `json:"route_from_city,omitempty"`
	RouteToCity    string    `json:"route_to_city,omitempty"`
	CargoItemCount int       `json:"cargo_item_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToSummary builds the listing entry of a document
func ToSummary(d *shipping.ShippingDocument) DocumentSummary {
	return DocumentSummary{
		ID:             d.ID,
		DocumentNumber: d.DocumentNumber,
		Status:         string(d.Status),
		ReceiptDate:    d.ReceiptDate,
		CarrierName:    d.Carrier.Name,
		DriverName:     d.Driver.Name,
		RouteFromCity:  d.Route.FromCity,
		RouteToCity:    d.Route.ToCity,
		CargoItemCount: len(d.CargoItems),
		CreatedAt:      d.CreatedAt,
	}
}
