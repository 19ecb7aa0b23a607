package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/doseplan/internal/catalog"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	"github.com/smallbiznis/doseplan/internal/config"
	"github.com/smallbiznis/doseplan/internal/medication"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	"github.com/smallbiznis/doseplan/internal/observability"
	obsmiddleware "github.com/smallbiznis/doseplan/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/doseplan/internal/observability/metrics"
	obstracing "github.com/smallbiznis/doseplan/internal/observability/tracing"
	"github.com/smallbiznis/doseplan/internal/pharmacy"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"github.com/smallbiznis/doseplan/internal/quote"
	quotedomain "github.com/smallbiznis/doseplan/internal/quote/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	medication.Module,
	pharmacy.Module,
	catalog.Module,
	quote.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(obsCfg, metrics)
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
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	medicationSvc medicationdomain.Service
	pharmacySvc   pharmacydomain.Service
	catalogSvc    catalogdomain.Service
	quoteSvc      quotedomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	MedicationSvc medicationdomain.Service
	PharmacySvc   pharmacydomain.Service
	CatalogSvc    catalogdomain.Service
	QuoteSvc      quotedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		medicationSvc: p.MedicationSvc,
		pharmacySvc:   p.PharmacySvc,
		catalogSvc:    p.CatalogSvc,
		quoteSvc:      p.QuoteSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Medications --------
	api.GET("/medications", s.ListMedications)
	api.POST("/medications", s.CreateMedication)
	api.GET("/medications/:code", s.GetMedicationByCode)
	api.GET("/medications/:code/presets", s.GetMedicationSchedulePreview)

	// -------- Pharmacies --------
	api.GET("/pharmacies", s.ListPharmacies)
	api.POST("/pharmacies", s.CreatePharmacy)
	api.GET("/pharmacies/:id/shipping", s.ListShippingRules)
	api.POST("/shipping/rules", s.UpsertShippingRule)
	api.GET("/shipping/eligibility", s.GetShippingEligibility)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)

	// -------- Quotes --------
	api.POST("/quotes", s.CreateQuote)
}
