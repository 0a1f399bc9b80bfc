package models

import (
	"github.com/google/uuid"

	"github.com/shipdocs/backend/internal/domain/shipping"
)

// ShippingDocumentModel is the shipping_documents row. Every scalar of the
// document has its own column; cargo lines live in cargo_items.
type ShippingDocumentModel struct {
	BaseModel
	DocumentNumber      string `gorm:"type:varchar(100);not null;index"`
	LicenseNumber       string `gorm:"type:varchar(100)"`
	Status              string `gorm:"type:varchar(50)"`
	ReceiptDate         string `gorm:"type:varchar(20)"`
	ExitDate            string `gorm:"type:varchar(20)"`
	DepartureDate       string `gorm:"type:varchar(20)"`
	IsNegotiable        *bool
	CargoDocumentNumber string `gorm:"type:varchar(100)"`

	CarrierName    string `gorm:"type:varchar(200)"`
	CarrierPhone   string `gorm:"type:varchar(50)"`
	CarrierNotes   string `gorm:"type:text"`
	CarrierEmail   string `gorm:"type:varchar(200)"`
	CarrierLicense string `gorm:"type:varchar(100)"`

	DriverName        string `gorm:"type:varchar(200)"`
	DriverIDNumber    string `gorm:"column:driver_id_number;type:varchar(100)"`
	DriverIDType      string `gorm:"column:driver_id_type;type:varchar(50)"`
	DriverNationality string `gorm:"type:varchar(100)"`
	DriverBirthDate   string `gorm:"type:varchar(20)"`
	DriverPhone       string `gorm:"type:varchar(50)"`
	DriverCity        string `gorm:"type:varchar(100)"`

	TruckCountry            string `gorm:"type:varchar(100)"`
	TruckCity               string `gorm:"type:varchar(100)"`
	TruckPlateNumber        string `gorm:"type:varchar(50)"`
	TruckPlateCode          string `gorm:"type:varchar(50)"`
	TruckClassificationCode string `gorm:"type:varchar(50)"`
	TruckColor              string `gorm:"type:varchar(50)"`
	TruckType               string `gorm:"type:varchar(100)"`
	TruckAxles              *int
	TruckEnginePower        string `gorm:"type:varchar(50)"`

	SenderName    string `gorm:"type:varchar(200)"`
	SenderAddress string `gorm:"type:varchar(500)"`
	SenderCity    string `gorm:"type:varchar(100)"`
	SenderCountry string `gorm:"type:varchar(100)"`
	SenderPhone   string `gorm:"type:varchar(50)"`
	SenderNotes   string `gorm:"type:text"`

	RecipientName    string `gorm:"type:varchar(200)"`
	RecipientAddress string `gorm:"type:varchar(500)"`
	RecipientCity    string `gorm:"type:varchar(100)"`
	RecipientCountry string `gorm:"type:varchar(100)"`
	RecipientPhone   string `gorm:"type:varchar(50)"`
	RecipientNotes   string `gorm:"type:text"`

	RouteFromCity    string `gorm:"type:varchar(100)"`
	RouteFromCountry string `gorm:"type:varchar(100)"`
	RouteToCity      string `gorm:"type:varchar(100)"`
	RouteToCountry   string `gorm:"type:varchar(100)"`

	PaymentBy           string `gorm:"type:varchar(50)"`
	PaymentMethod       string `gorm:"type:varchar(100)"`
	PaymentInstructions string `gorm:"type:text"`

	CargoItems []CargoItemModel `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ShippingDocumentModel) TableName() string {
	return shipping.CollectionName
}

// CargoItemModel is one cargo line; Position keeps the entry order
type CargoItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Quantity    float64
	Weight      float64
	Unit        string `gorm:"type:varchar(20)"`
	Dimensions  string `gorm:"type:varchar(100)"`
	Status      string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (CargoItemModel) TableName() string {
	return "cargo_items"
}

// ToDomain converts the row and its cargo lines to a domain document.
// CargoItems must already be sorted by Position.
func (m *ShippingDocumentModel) ToDomain() *shipping.ShippingDocument {
	doc := &shipping.ShippingDocument{
		ID:                  m.ID.String(),
		DocumentNumber:      m.DocumentNumber,
		LicenseNumber:       m.LicenseNumber,
		Status:              shipping.Status(m.Status),
		ReceiptDate:         m.ReceiptDate,
		ExitDate:            m.ExitDate,
		DepartureDate:       m.DepartureDate,
		IsNegotiable:        m.IsNegotiable,
		CargoDocumentNumber: m.CargoDocumentNumber,
		Carrier: shipping.Carrier{
			Name:    m.CarrierName,
			Phone:   m.CarrierPhone,
			Notes:   m.CarrierNotes,
			Email:   m.CarrierEmail,
			License: m.CarrierLicense,
		},
		Driver: shipping.Driver{
			Name:        m.DriverName,
			IDNumber:    m.DriverIDNumber,
			IDType:      shipping.DriverIDType(m.DriverIDType),
			Nationality: m.DriverNationality,
			BirthDate:   m.DriverBirthDate,
			Phone:       m.DriverPhone,
			City:        m.DriverCity,
		},
		Truck: shipping.Truck{
			Country:            m.TruckCountry,
			City:               m.TruckCity,
			PlateNumber:        m.TruckPlateNumber,
			PlateCode:          m.TruckPlateCode,
			ClassificationCode: m.TruckClassificationCode,
			Color:              m.TruckColor,
			Type:               m.TruckType,
			Axles:              m.TruckAxles,
			EnginePower:        m.TruckEnginePower,
		},
		Route: shipping.Route{
			FromCity:    m.RouteFromCity,
			FromCountry: m.RouteFromCountry,
			ToCity:      m.RouteToCity,
			ToCountry:   m.RouteToCountry,
		},
		Sender: shipping.Party{
			Name:    m.SenderName,
			Address: m.SenderAddress,
			City:    m.SenderCity,
			Country: m.SenderCountry,
			Phone:   m.SenderPhone,
			Notes:   m.SenderNotes,
		},
		Recipient: shipping.Party{
			Name:    m.RecipientName,
			Address: m.RecipientAddress,
			City:    m.RecipientCity,
			Country: m.RecipientCountry,
			Phone:   m.RecipientPhone,
			Notes:   m.RecipientNotes,
		},
		Payment: shipping.Payment{
			By:           shipping.Payer(m.PaymentBy),
			Method:       m.PaymentMethod,
			Instructions: m.PaymentInstructions,
		},
		CargoItems: make([]shipping.CargoItem, 0, len(m.CargoItems)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for _, item := range m.CargoItems {
		doc.CargoItems = append(doc.CargoItems, shipping.CargoItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Weight:      item.Weight,
			Unit:        shipping.CargoUnit(item.Unit),
			Dimensions:  item.Dimensions,
			Status:      shipping.CargoCondition(item.Status),
		})
	}
	return doc
}

// FromDomain populates the row from doc under id
func (m *ShippingDocumentModel) FromDomain(id uuid.UUID, doc *shipping.ShippingDocument) {
	m.ID = id
	m.CreatedAt = doc.CreatedAt
	m.UpdatedAt = doc.UpdatedAt
	m.DocumentNumber = doc.DocumentNumber
	m.LicenseNumber = doc.LicenseNumber
	m.Status = string(doc.Status)
	m.ReceiptDate = doc.ReceiptDate
	m.ExitDate = doc.ExitDate
	m.DepartureDate = doc.DepartureDate
	m.IsNegotiable = doc.IsNegotiable
	m.CargoDocumentNumber = doc.CargoDocumentNumber

	m.CarrierName = doc.Carrier.Name
	m.CarrierPhone = doc.Carrier.Phone
	m.CarrierNotes = doc.Carrier.Notes
	m.CarrierEmail = doc.Carrier.Email
	m.CarrierLicense = doc.Carrier.License

	m.DriverName = doc.Driver.Name
	m.DriverIDNumber = doc.Driver.IDNumber
	m.DriverIDType = string(doc.Driver.IDType)
	m.DriverNationality = doc.Driver.Nationality
	m.DriverBirthDate = doc.Driver.BirthDate
	m.DriverPhone = doc.Driver.Phone
	m.DriverCity = doc.Driver.City

	m.TruckCountry = doc.Truck.Country
	m.TruckCity = doc.Truck.City
	m.TruckPlateNumber = doc.Truck.PlateNumber
	m.TruckPlateCode = doc.Truck.PlateCode
	m.TruckClassificationCode = doc.Truck.ClassificationCode
	m.TruckColor = doc.Truck.Color
	m.TruckType = doc.Truck.Type
	m.TruckAxles = doc.Truck.Axles
	m.TruckEnginePower = doc.Truck.EnginePower

	m.SenderName = doc.Sender.Name
	m.SenderAddress = doc.Sender.Address
	m.SenderCity = doc.Sender.City
	m.SenderCountry = doc.Sender.Country
	m.SenderPhone = doc.Sender.Phone
	m.SenderNotes = doc.Sender.Notes

	m.RecipientName = doc.Recipient.Name
	m.RecipientAddress = doc.Recipient.Address
	m.RecipientCity = doc.Recipient.City
	m.RecipientCountry = doc.Recipient.Country
	m.RecipientPhone = doc.Recipient.Phone
	m.RecipientNotes = doc.Recipient.Notes

	m.RouteFromCity = doc.Route.FromCity
	m.RouteFromCountry = doc.Route.FromCountry
	m.RouteToCity = doc.Route.ToCity
	m.RouteToCountry = doc.Route.ToCountry

	m.PaymentBy = string(doc.Payment.By)
	m.PaymentMethod = doc.Payment.Method
	m.PaymentInstructions = doc.Payment.Instructions

	m.CargoItems = make([]CargoItemModel, 0, len(doc.CargoItems))
	for i, item := range doc.CargoItems {
		m.CargoItems = append(m.CargoItems, CargoItemModel{
			ID:          uuid.New(),
			DocumentID:  id,
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			Weight:      item.Weight,
			Unit:        string(item.Unit),
			Dimensions:  item.Dimensions,
			Status:      string(item.Status),
		})
	}
}
