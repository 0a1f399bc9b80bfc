package shipping

import (
	"strings"
	"time"

	"github.com/shipdocs/backend/internal/domain/shared"
)

// CollectionName is the record store collection holding shipping documents
const CollectionName = "shipping_documents"

// PartyRole distinguishes the two parties of a shipment.
// It also prefixes the flat record keys of the party ("sender_name").
type PartyRole string

const (
	RoleSender    PartyRole = "sender"
	RoleRecipient PartyRole = "recipient"
)

// Party is a sender or recipient of the goods
type Party struct {
	Name    string
	Address string
	City    string
	Country string
	Phone   string
	Notes   string
}

// AddressLine returns the street address, or "city، country" when no address was given
func (p Party) AddressLine() string {
	if p.Address != "" {
		return p.Address
	}
	return p.City + "، " + p.Country
}

// Carrier is the transport company responsible for the shipment
type Carrier struct {
	Name    string
	Phone   string
	Notes   string
	Email   string
	License string
}

// Driver is the person driving the truck
type Driver struct {
	Name        string
	IDNumber    string
	IDType      DriverIDType
	Nationality string
	BirthDate   string
	Phone       string
	City        string
}

// Truck is the vehicle carrying the goods
type Truck struct {
	Country            string
	City               string
	PlateNumber        string
	PlateCode          string
	ClassificationCode string
	Color              string
	Type               string
	Axles              *int
	EnginePower        string
}

// Route is where the shipment travels from and to
type Route struct {
	FromCity    string
	FromCountry string
	ToCity      string
	ToCountry   string
}

// Payment describes how transport fees are settled
type Payment struct {
	By           Payer
	Method       string
	Instructions string
}

// CargoItem is one line of the cargo manifest
type CargoItem struct {
	Description string
	Quantity    float64
	Weight      float64
	Unit        CargoUnit
	Dimensions  string
	Status      CargoCondition
}

// ShippingDocument is a transport document (وثيقة نقل).
// ID and CreatedAt are assigned by the record store when the document is
// created and never change afterwards.
type ShippingDocument struct {
	ID             string
	DocumentNumber string
	LicenseNumber  string
	Status         Status
	ReceiptDate    string
	ExitDate       string
	DepartureDate  string

	// IsNegotiable is nil when the user never answered the question.
	IsNegotiable        *bool
	CargoDocumentNumber string

	Carrier   Carrier
	Driver    Driver
	Truck     Truck
	Route     Route
	Sender    Party
	Recipient Party
	Payment   Payment

	CargoItems []CargoItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDraft returns the initial state of the document form: every field has an
// explicit default and the cargo list holds one empty line.
func NewDraft() ShippingDocument {
	return ShippingDocument{
		Status: StatusSaved,
		Driver: Driver{
			IDType: DriverIDNational,
		},
		Payment: Payment{
			By: PayerRecipient,
		},
		CargoItems: []CargoItem{NewCargoItem()},
	}
}

// NewCargoItem returns an empty cargo line with the form defaults
func NewCargoItem() CargoItem {
	return CargoItem{
		Unit:   UnitTon,
		Status: ConditionIntact,
	}
}

// ApplyDefaults fills the fields the form would have pre-filled.
// Values the caller set are kept.
func (d *ShippingDocument) ApplyDefaults() {
	if d.Status == "" {
		d.Status = StatusSaved
	}
	if d.Driver.IDType == "" {
		d.Driver.IDType = DriverIDNational
	}
	if d.Payment.By == "" {
		d.Payment.By = PayerRecipient
	}
	if d.CargoItems == nil {
		d.CargoItems = []CargoItem{}
	}
}

// Validate checks the only rule enforced before a write: a document number
func (d *ShippingDocument) Validate() error {
	if strings.TrimSpace(d.DocumentNumber) == "" {
		return shared.NewDomainError("REQUIRED", "document_number is required")
	}
	return nil
}

// Party returns the sender or the recipient
func (d *ShippingDocument) Party(role PartyRole) Party {
	if role == RoleRecipient {
		return d.Recipient
	}
	return d.Sender
}

// ShowsCargoManifest reports whether the cargo manifest section is rendered:
// a manifest number is present or negotiability was answered either way.
func (d *ShippingDocument) ShowsCargoManifest() bool {
	return d.CargoDocumentNumber != "" || d.IsNegotiable != nil
}

// DisplayNumber returns the document number, or the record id when the number is blank
func (d *ShippingDocument) DisplayNumber() string {
	if d.DocumentNumber != "" {
		return d.DocumentNumber
	}
	return d.ID
}

// ExportFilename is the name of the downloaded PDF: shipping-<number-or-id>.pdf
func ExportFilename(d *ShippingDocument) string {
	return "shipping-" + d.DisplayNumber() + ".pdf"
}

// MarkCreated stamps both timestamps with the same instant
func (d *ShippingDocument) MarkCreated(now time.Time) {
	d.CreatedAt = now
	d.UpdatedAt = now
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}
