package shipping

// Status is the free-form lifecycle label of a document.
// The form offers the values below but any text is accepted.
type Status string

const (
	StatusSaved      Status = "محفوظه"
	StatusInProgress Status = "قيد التنفيذ"
	StatusCompleted  Status = "مكتملة"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns the statuses offered by the form
func AllStatuses() []Status {
	return []Status{StatusSaved, StatusInProgress, StatusCompleted}
}

// DriverIDType identifies which identity document the driver presented
type DriverIDType string

const (
	DriverIDNational DriverIDType = "رقم هوية السائق"
	DriverIDPassport DriverIDType = "جواز سفر"
)

// String returns the string representation of DriverIDType
func (t DriverIDType) String() string {
	return string(t)
}

// IsValid checks if the DriverIDType is one of the known values
func (t DriverIDType) IsValid() bool {
	switch t {
	case DriverIDNational, DriverIDPassport:
		return true
	}
	return false
}

// AllDriverIDTypes returns all known DriverIDType values
func AllDriverIDTypes() []DriverIDType {
	return []DriverIDType{DriverIDNational, DriverIDPassport}
}

// Payer is the party that pays the transport fees
type Payer string

const (
	PayerRecipient Payer = "المرسل إليه"
	PayerSender    Payer = "المرسل"
)

// String returns the string representation of Payer
func (p Payer) String() string {
	return string(p)
}

// IsValid checks if the Payer is one of the known values
func (p Payer) IsValid() bool {
	switch p {
	case PayerRecipient, PayerSender:
		return true
	}
	return false
}

// AllPayers returns all known Payer values
func AllPayers() []Payer {
	return []Payer{PayerRecipient, PayerSender}
}

// CargoUnit is the unit a cargo line is measured in
type CargoUnit string

const (
	UnitTon      CargoUnit = "طن"
	UnitKilogram CargoUnit = "كجم"
	UnitPiece    CargoUnit = "قطعة"
)

// String returns the string representation of CargoUnit
func (u CargoUnit) String() string {
	return string(u)
}

// IsValid checks if the CargoUnit is one of the known values
func (u CargoUnit) IsValid() bool {
	switch u {
	case UnitTon, UnitKilogram, UnitPiece:
		return true
	}
	return false
}

// AllCargoUnits returns all known CargoUnit values
func AllCargoUnits() []CargoUnit {
	return []CargoUnit{UnitTon, UnitKilogram, UnitPiece}
}

// CargoCondition records whether goods were received intact
type CargoCondition string

const (
	ConditionIntact  CargoCondition = "سليمة"
	ConditionDamaged CargoCondition = "تالفة"
)

// String returns the string representation of CargoCondition
func (c CargoCondition) String() string {
	return string(c)
}

// IsValid checks if the CargoCondition is one of the known values
func (c CargoCondition) IsValid() bool {
	switch c {
	case ConditionIntact, ConditionDamaged:
		return true
	}
	return false
}

// AllCargoConditions returns all known CargoCondition values
func AllCargoConditions() []CargoCondition {
	return []CargoCondition{ConditionIntact, ConditionDamaged}
}
