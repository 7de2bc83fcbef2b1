package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/complaint"
	complaintdomain "github.com/pgdesk/pgdesk/internal/complaint/domain"
	"github.com/pgdesk/pgdesk/internal/config"
	"github.com/pgdesk/pgdesk/internal/dashboard"
	dashboarddomain "github.com/pgdesk/pgdesk/internal/dashboard/domain"
	"github.com/pgdesk/pgdesk/internal/meter"
	meterdomain "github.com/pgdesk/pgdesk/internal/meter/domain"
	"github.com/pgdesk/pgdesk/internal/observability"
	obsmiddleware "github.com/pgdesk/pgdesk/internal/observability/logger"
	obsmetrics "github.com/pgdesk/pgdesk/internal/observability/metrics"
	obstracing "github.com/pgdesk/pgdesk/internal/observability/tracing"
	"github.com/pgdesk/pgdesk/internal/payment"
	paymentdomain "github.com/pgdesk/pgdesk/internal/payment/domain"
	"github.com/pgdesk/pgdesk/internal/providers/pdf"
	"github.com/pgdesk/pgdesk/internal/ratelimit"
	"github.com/pgdesk/pgdesk/internal/rent"
	rentdomain "github.com/pgdesk/pgdesk/internal/rent/domain"
	"github.com/pgdesk/pgdesk/internal/room"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	"github.com/pgdesk/pgdesk/internal/tenant"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	room.Module,
	tenant.Module,
	payment.Module,
	rent.Module,
	meter.Module,
	complaint.Module,
	dashboard.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	roomSvc      roomdomain.Service
	tenantSvc    tenantdomain.Service
	paymentSvc   paymentdomain.Service
	rentSvc      rentdomain.Service
	meterSvc     meterdomain.Service
	complaintSvc complaintdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	RoomSvc      roomdomain.Service
	TenantSvc    tenantdomain.Service
	PaymentSvc   paymentdomain.Service
	RentSvc      rentdomain.Service
	MeterSvc     meterdomain.Service
	ComplaintSvc complaintdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		roomSvc:      p.RoomSvc,
		tenantSvc:    p.TenantSvc,
		paymentSvc:   p.PaymentSvc,
		rentSvc:      p.RentSvc,
		meterSvc:     p.MeterSvc,
		complaintSvc: p.ComplaintSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.OwnerContext())

	// -------- Rooms --------
	api.GET("/rooms", s.ListRooms)
	api.POST("/rooms", s.CreateRoom)
	api.GET("/rooms/:id", s.GetRoomByID)
	api.PATCH("/rooms/:id", s.UpdateRoom)
	api.DELETE("/rooms/:id", s.DeleteRoom)
	api.GET("/rooms/:id/history", s.GetRoomHistory)

	// -------- Tenants --------
	api.GET("/tenants", s.ListTenants)
	api.POST("/tenants", s.OnboardTenant)
	api.GET("/tenants/:id", s.GetTenantByID)
	api.PATCH("/tenants/:id", s.UpdateTenant)
	api.POST("/tenants/:id/notice", s.StartTenantNotice)
	api.POST("/tenants/:id/checkout", s.CheckoutTenant)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.RecordPayment)
	api.GET("/payments/:id", s.GetPaymentByID)

	// -------- Rent --------
	api.GET("/rent/statement", s.GetRentStatement)
	api.GET("/rent/receipt", s.GetRentReceipt)

	// -------- Meters --------
	api.GET("/meters", s.ListMeters)
	api.POST("/meters", s.CreateMeter)
	api.GET("/meters/:id", s.GetMeterByID)
	api.GET("/meters/:id/readings", s.ListMeterReadings)
	api.POST("/meters/:id/readings", s.AddMeterReading)
	api.GET("/meters/:id/summary", s.GetMeterSummary)

	// -------- Complaints --------
	api.GET("/complaints", s.ListComplaints)
	api.POST("/complaints", s.CreateComplaint)
	api.GET("/complaints/:id", s.GetComplaintByID)
	api.PATCH("/complaints/:id/status", s.UpdateComplaintStatus)

	// -------- Dashboard --------
	api.GET("/dashboard/overview", s.GetDashboardOverview)
	api.GET("/dashboard/series", s.GetDashboardSeries)
}
