package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/persistence/models"
)

func newSQLiteRepository(t *testing.T) *GormDocumentRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: is per connection
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.ShippingDocumentModel{}, &models.CargoItemModel{}))
	return NewGormDocumentRepository(db)
}

func fullDocument(number string, created time.Time) *shipping.ShippingDocument {
	doc := &shipping.ShippingDocument{
		DocumentNumber:      number,
		LicenseNumber:       "LIC-9",
		Status:              shipping.StatusSaved,
		ReceiptDate:         "2026-03-01",
		IsNegotiable:        shipping.BoolPtr(false),
		CargoDocumentNumber: "CM-1",
		Carrier:             shipping.Carrier{Name: "Desert Freight", Email: "ops@desert.example"},
		Driver:              shipping.Driver{Name: "Ahmad", IDType: shipping.DriverIDNational},
		Truck:               shipping.Truck{PlateNumber: "12-345", Axles: shipping.IntPtr(4)},
		Route:               shipping.Route{FromCity: "عمان", FromCountry: "الأردن", ToCity: "الرياض", ToCountry: "السعودية"},
		Sender:              shipping.Party{Name: "Sender Co", City: "عمان", Country: "الأردن"},
		Recipient:           shipping.Party{Name: "Recipient Co", Address: "King Fahd Rd"},
		Payment:             shipping.Payment{By: shipping.PayerRecipient, Method: "cash"},
		CargoItems: []shipping.CargoItem{
			{Description: "Cement", Quantity: 10, Weight: 2.5, Unit: shipping.UnitTon, Status: shipping.ConditionIntact},
			{Description: "Steel", Quantity: 3, Weight: 7, Unit: shipping.UnitTon, Status: shipping.ConditionIntact},
			{Description: "Glass", Quantity: 1, Weight: 0.5, Unit: shipping.UnitTon, Status: shipping.ConditionIntact},
		},
	}
	doc.MarkCreated(created)
	return doc
}

func TestGormDocumentRepository_CreateAndFind(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	id, err := repo.Create(ctx, fullDocument("DOC-001", created))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "DOC-001", doc.DocumentNumber)
	assert.True(t, created.Equal(doc.CreatedAt))
	require.NotNil(t, doc.IsNegotiable)
	assert.False(t, *doc.IsNegotiable)
	require.NotNil(t, doc.Truck.Axles)
	assert.Equal(t, 4, *doc.Truck.Axles)
	assert.Equal(t, "الرياض", doc.Route.ToCity)
	assert.Equal(t, "King Fahd Rd", doc.Recipient.Address)
	assert.Equal(t, shipping.PayerRecipient, doc.Payment.By)

	require.Len(t, doc.CargoItems, 3)
	assert.Equal(t, "Cement", doc.CargoItems[0].Description)
	assert.Equal(t, "Steel", doc.CargoItems[1].Description)
	assert.Equal(t, "Glass", doc.CargoItems[2].Description)
	assert.Equal(t, 2.5, doc.CargoItems[0].Weight)
}

func TestGormDocumentRepository_OptionalFieldsStayUnset(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	doc := &shipping.ShippingDocument{DocumentNumber: "DOC-002", CargoItems: []shipping.CargoItem{}}
	doc.MarkCreated(time.Now().UTC())

	id, err := repo.Create(ctx, doc)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, found.IsNegotiable)
	assert.Nil(t, found.Truck.Axles)
	assert.NotNil(t, found.CargoItems)
	assert.Empty(t, found.CargoItems)
}

func TestGormDocumentRepository_FindByID_NotFound(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	t.Run("unknown uuid", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "7f3c2a1e-9b4d-4c1e-8f2a-3b5c6d7e8f90")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "not-a-uuid")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormDocumentRepository_ListByCreatedDesc(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, number := range []string{"OLD", "NEWEST", "MIDDLE"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		_, err := repo.Create(ctx, fullDocument(number, base.Add(offsets[i])))
		require.NoError(t, err)
	}

	docs, err := repo.ListByCreatedDesc(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "NEWEST", docs[0].DocumentNumber)
	assert.Equal(t, "MIDDLE", docs[1].DocumentNumber)
	assert.Equal(t, "OLD", docs[2].DocumentNumber)
	assert.Len(t, docs[0].CargoItems, 3)
}

func TestGormDocumentRepository_ListEmpty(t *testing.T) {
	repo := newSQLiteRepository(t)

	docs, err := repo.ListByCreatedDesc(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestGormDocumentRepository_StoreErrors(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormDocumentRepository(db.DB)

	mock.ExpectQuery(`SELECT \* FROM "shipping_documents"`).
		WillReturnError(errors.New("relation does not exist"))

	_, err := repo.ListByCreatedDesc(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list shipping documents")
	assert.False(t, errors.Is(err, shared.ErrNotFound))

	mock.ExpectQuery(`SELECT \* FROM "shipping_documents" WHERE id = \$1`).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.FindByID(context.Background(), "7f3c2a1e-9b4d-4c1e-8f2a-3b5c6d7e8f90")
	require.Error(t, err)
	assert.False(t, errors.Is(err, shared.ErrNotFound))
}
