package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	complaintdomain "github.com/pgdesk/pgdesk/internal/complaint/domain"
	complaintrepo "github.com/pgdesk/pgdesk/internal/complaint/repository"
	complaintservice "github.com/pgdesk/pgdesk/internal/complaint/service"
	"github.com/pgdesk/pgdesk/internal/config"
	dashboardrepo "github.com/pgdesk/pgdesk/internal/dashboard/repository"
	dashboardservice "github.com/pgdesk/pgdesk/internal/dashboard/service"
	meterdomain "github.com/pgdesk/pgdesk/internal/meter/domain"
	meterrepo "github.com/pgdesk/pgdesk/internal/meter/repository"
	meterservice "github.com/pgdesk/pgdesk/internal/meter/service"
	paymentdomain "github.com/pgdesk/pgdesk/internal/payment/domain"
	paymentrepo "github.com/pgdesk/pgdesk/internal/payment/repository"
	paymentservice "github.com/pgdesk/pgdesk/internal/payment/service"
	"github.com/pgdesk/pgdesk/internal/providers/pdf"
	rentdomain "github.com/pgdesk/pgdesk/internal/rent/domain"
	rentrepo "github.com/pgdesk/pgdesk/internal/rent/repository"
	rentservice "github.com/pgdesk/pgdesk/internal/rent/service"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	roomrepo "github.com/pgdesk/pgdesk/internal/room/repository"
	roomservice "github.com/pgdesk/pgdesk/internal/room/service"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
	tenantrepo "github.com/pgdesk/pgdesk/internal/tenant/repository"
	tenantservice "github.com/pgdesk/pgdesk/internal/tenant/service"
)

type serverFixture struct {
	srv   *Server
	clock *clock.FakeClock
	node  *snowflake.Node
	owner snowflake.ID
}

func setupServerTest(t *testing.T, cfg config.Config) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&roomdomain.Room{},
		&roomdomain.EditHistory{},
		&tenantdomain.Tenant{},
		&paymentdomain.Payment{},
		&rentdomain.RentRecord{},
		&meterdomain.Meter{},
		&meterdomain.Reading{},
		&complaintdomain.Complaint{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	roomSvc := roomservice.New(roomservice.Params{
		DB: db, Log: log, GenID: node, Repo: roomrepo.Provide(),
	})
	tenantSvc := tenantservice.New(tenantservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
		Repo: tenantrepo.Provide(), RoomRepo: roomrepo.Provide(),
	})
	paymentSvc := paymentservice.New(paymentservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
		Repo: paymentrepo.Provide(), TenantRepo: tenantrepo.Provide(),
	})
	rentSvc := rentservice.New(rentservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc, Config: cfg,
		Repo: rentrepo.Provide(), PDF: pdf.NewProvider(),
	})
	meterSvc := meterservice.New(meterservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc, Tariff: &config.TariffHolder{},
		Repo: meterrepo.Provide(), RoomRepo: roomrepo.Provide(),
	})
	complaintSvc := complaintservice.New(complaintservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
		Repo: complaintrepo.Provide(), TenantRepo: tenantrepo.Provide(), RoomRepo: roomrepo.Provide(),
	})
	dashboardSvc := dashboardservice.New(dashboardservice.Params{
		DB: db, Log: log, Clock: fc, Config: cfg, Repo: dashboardrepo.Provide(),
	})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:       engine,
		cfg:          cfg,
		db:           db,
		genID:        node,
		roomSvc:      roomSvc,
		tenantSvc:    tenantSvc,
		paymentSvc:   paymentSvc,
		rentSvc:      rentSvc,
		meterSvc:     meterSvc,
		complaintSvc: complaintSvc,
		dashboardSvc: dashboardSvc,
	}
	srv.registerAPIRoutes()

	return &serverFixture{srv: srv, clock: fc, node: node, owner: node.Generate()}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ownerHeader, f.owner.String())
	for key, value := range headers {
		if value == "" {
			req.Header.Del(key)
		} else {
			req.Header.Set(key, value)
		}
	}

	w := httptest.NewRecorder()
	f.srv.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestAPILifecycle(t *testing.T) {
	f := setupServerTest(t, config.Config{AppName: "pgdesk", RentDueDay: 5, DashboardMonths: 6})

	// Room.
	w := f.do(t, http.MethodPost, "/api/rooms", gin.H{
		"room_number": "101",
		"room_type":   "single",
		"rent_paise":  500000,
		"capacity":    1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var room roomdomain.Response
	decodeData(t, w, &room)

	// Tenant.
	w = f.do(t, http.MethodPost, "/api/tenants", gin.H{
		"room_id":   room.ID,
		"full_name": "Asha",
		"phone":     "9876543210",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tenant tenantdomain.Response
	decodeData(t, w, &tenant)
	assert.Equal(t, tenantdomain.StatusActive, tenant.Status)

	// Payment for July.
	w = f.do(t, http.MethodPost, "/api/payments", gin.H{
		"tenant_id":     tenant.ID,
		"payment_month": "2024-07",
		"rent_paise":    500000,
		"method":        "upi",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Statement shows the tenant paid.
	w = f.do(t, http.MethodGet, "/api/rent/statement?month=2024-07", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stmt struct {
		Records []struct {
			TenantID string `json:"tenant_id"`
			Status   string `json:"status"`
		} `json:"records"`
		CollectedPaise int64 `json:"collected_paise"`
	}
	decodeData(t, w, &stmt)
	require.Len(t, stmt.Records, 1)
	assert.Equal(t, "paid", stmt.Records[0].Status)
	assert.Equal(t, int64(500000), stmt.CollectedPaise)

	// Receipt streams a PDF.
	w = f.do(t, http.MethodGet, "/api/rent/receipt?tenant_id="+tenant.ID+"&month=2024-07", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// Meter and a reading.
	w = f.do(t, http.MethodPost, "/api/meters", gin.H{
		"room_id":          room.ID,
		"meter_number":     "MTR-001",
		"starting_reading": 100,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var meter meterdomain.MeterResponse
	decodeData(t, w, &meter)

	w = f.do(t, http.MethodPost, "/api/meters/"+meter.ID+"/readings", gin.H{
		"reading_value": 150,
		"recorded_by":   "owner",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reading meterdomain.ReadingResponse
	decodeData(t, w, &reading)
	assert.Equal(t, 50.0, reading.UnitsConsumed)
	assert.Equal(t, int64(22500), reading.BillPaise)

	// Complaint raised and resolved.
	w = f.do(t, http.MethodPost, "/api/complaints", gin.H{
		"title":   "leaking tap",
		"room_id": room.ID,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var complaint complaintdomain.Response
	decodeData(t, w, &complaint)

	w = f.do(t, http.MethodPatch, "/api/complaints/"+complaint.ID+"/status", gin.H{
		"status": "resolved",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Dashboard reflects it all.
	w = f.do(t, http.MethodGet, "/api/dashboard/overview", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var overview struct {
		ActiveTenants       int    `json:"active_tenants"`
		OpenComplaints      int64  `json:"open_complaints"`
		Month               string `json:"month"`
		MonthCollectedPaise int64  `json:"month_collected_paise"`
	}
	decodeData(t, w, &overview)
	assert.Equal(t, 1, overview.ActiveTenants)
	assert.Equal(t, int64(0), overview.OpenComplaints)
	assert.Equal(t, "2024-07", overview.Month)
	assert.Equal(t, int64(500000), overview.MonthCollectedPaise)

	w = f.do(t, http.MethodGet, "/api/dashboard/series?months=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var series []struct {
		Month string `json:"month"`
	}
	decodeData(t, w, &series)
	require.Len(t, series, 3)
	assert.Equal(t, "2024-07", series[2].Month)
}

func TestErrorMapping(t *testing.T) {
	f := setupServerTest(t, config.Config{AppName: "pgdesk", RentDueDay: 5, DashboardMonths: 6})

	w := f.do(t, http.MethodPost, "/api/rooms", gin.H{
		"room_number": "101",
		"room_type":   "single",
		"rent_paise":  500000,
		"capacity":    1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Duplicate room number conflicts.
	w = f.do(t, http.MethodPost, "/api/rooms", gin.H{
		"room_number": "101",
		"room_type":   "single",
		"rent_paise":  500000,
		"capacity":    1,
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decodeError(t, w).Type)

	// Validation failures come back as 400 with field details.
	w = f.do(t, http.MethodPost, "/api/rooms", gin.H{
		"room_number": "102",
		"room_type":   "single",
		"rent_paise":  0,
		"capacity":    1,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	assert.Equal(t, "validation_error", payload.Type)
	require.NotEmpty(t, payload.Errors)
	assert.Equal(t, "invalid_rent_amount", payload.Errors[0].Code)

	// Unknown resources are 404.
	w = f.do(t, http.MethodGet, "/api/rooms/"+f.node.Generate().String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Type)
}

func TestOwnerResolution(t *testing.T) {
	f := setupServerTest(t, config.Config{AppName: "pgdesk", RentDueDay: 5, DashboardMonths: 6})

	// No header and no default owner configured.
	w := f.do(t, http.MethodGet, "/api/rooms", nil, map[string]string{ownerHeader: ""})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeError(t, w).Type)

	// Garbage header.
	w = f.do(t, http.MethodGet, "/api/rooms", nil, map[string]string{ownerHeader: "not-a-snowflake"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Owners only see their own rooms.
	w = f.do(t, http.MethodPost, "/api/rooms", gin.H{
		"room_number": "101",
		"room_type":   "single",
		"rent_paise":  500000,
		"capacity":    1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	other := f.node.Generate()
	w = f.do(t, http.MethodGet, "/api/rooms", nil, map[string]string{ownerHeader: other.String()})
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []roomdomain.Response
	decodeData(t, w, &rooms)
	assert.Empty(t, rooms)
}

func TestDefaultOwnerFallback(t *testing.T) {
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	defaultOwner := node.Generate()

	f := setupServerTest(t, config.Config{
		AppName:         "pgdesk",
		RentDueDay:      5,
		DashboardMonths: 6,
		DefaultOwnerID:  defaultOwner.Int64(),
	})

	w := f.do(t, http.MethodPost, "/api/rooms", gin.H{
		"room_number": "101",
		"room_type":   "single",
		"rent_paise":  500000,
		"capacity":    1,
	}, map[string]string{ownerHeader: ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var room roomdomain.Response
	decodeData(t, w, &room)
	assert.Equal(t, defaultOwner.String(), room.OwnerID)
}
