package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shipdocs/backend/internal/application/export"
	appprinting "github.com/shipdocs/backend/internal/application/printing"
	appshipping "github.com/shipdocs/backend/internal/application/shipping"
	"github.com/shipdocs/backend/internal/domain/shipping"
	infra "github.com/shipdocs/backend/internal/infrastructure/printing"
	"github.com/shipdocs/backend/internal/interfaces/http/middleware"
	"github.com/shipdocs/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockDocumentService implements DocumentService for testing
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, doc *shipping.ShippingDocument) (*shipping.ShippingDocument, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShippingDocument), args.Error(1)
}

func (m *MockDocumentService) CreateFromInput(ctx context.Context, in appshipping.DocumentInput) (*shipping.ShippingDocument, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShippingDocument), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*shipping.ShippingDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShippingDocument), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context) ([]*shipping.ShippingDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipping.ShippingDocument), args.Error(1)
}

// MockExporter implements Exporter for testing
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, id string) (*export.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Result), args.Error(1)
}

// MockExportStatus implements ExportStatus for testing
type MockExportStatus struct {
	mock.Mock
}

func (m *MockExportStatus) Held(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockPinger implements Pinger for testing
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type testServer struct {
	engine   *gin.Engine
	docs     *MockDocumentService
	exporter *MockExporter
	status   *MockExportStatus
}

// newTestServer wires the handlers the way the server does, with the real
// template engine and render service in front of mocked storage and export.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	templates, err := infra.NewTemplateEngine()
	require.NoError(t, err)

	s := &testServer{
		engine:   gin.New(),
		docs:     new(MockDocumentService),
		exporter: new(MockExporter),
		status:   new(MockExportStatus),
	}
	renderer := appprinting.NewRenderService(s.docs, templates, infra.ViewOptions{
		PublicBaseURL: "https://docs.example.com",
	}, nil)

	pages := NewPageHandler(s.docs, renderer, templates, s.status)
	s.engine.Use(middleware.RequestID())
	router.NewRouter(s.engine).
		Register(DocumentRoutes(NewDocumentHandler(s.docs))).
		RegisterPages(PageRoutes(pages, NewExportHandler(s.exporter))).
		RegisterPages(PrintRoutes(pages)).
		Setup()
	return s
}

func (s *testServer) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(http.MethodGet, path, "", "")
}

func sampleDocument(id, number string) *shipping.ShippingDocument {
	doc := shipping.NewDraft()
	doc.ID = id
	doc.DocumentNumber = number
	doc.Carrier.Name = "شركة النقل السريع"
	doc.Route = shipping.Route{FromCity: "عمان", ToCity: "العقبة"}
	return &doc
}
