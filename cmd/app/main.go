package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"immoportal/cmd/fx/account_fx"
	"immoportal/cmd/fx/config_fx"
	"immoportal/cmd/fx/contact_request_fx"
	"immoportal/cmd/fx/controllers_fx"
	"immoportal/cmd/fx/criteria_fx"
	"immoportal/cmd/fx/db_fx"
	"immoportal/cmd/fx/listing_fx"
	"immoportal/cmd/fx/logger_fx"
	"immoportal/cmd/fx/mail_fx"
	"immoportal/cmd/fx/memcache_fx"
	"immoportal/cmd/fx/storage_fx"
	"immoportal/cmd/fx/subscription_fx"
	"immoportal/cmd/fx/sync_fx"
	"immoportal/internal/api/controllers"
	"immoportal/internal/models/db_models"
	"immoportal/internal/services"
	"immoportal/pkg/config"
	"immoportal/pkg/metrics"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		storage_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		subscription_fx.Module,
		criteria_fx.Module,
		listing_fx.Module,
		contact_request_fx.Module,
		sync_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(ProvideRouter),
		fx.Invoke(BootstrapAdmin),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("HTTP server listening", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

// BootstrapAdmin creates the configured first admin, if any.
func BootstrapAdmin(lc fx.Lifecycle, cfg *config.Config, accounts services.AccountServiceInterface, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			b := cfg.Bootstrap
			if err := accounts.EnsureBootstrapAdmin(ctx, b.AdminEmail, b.AdminPassword, b.AdminName); err != nil {
				log.Error("bootstrap admin", zap.Error(err))
			}
			return nil
		},
	})
}

type RouterParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Tokens   *utils.TokenIssuer
	Gate     services.AccessGateInterface
	Accounts services.AccountServiceInterface

	Account  *controllers.AccountController
	Client   *controllers.ClientAreaController
	Clients  *controllers.AgentClientController
	Property *controllers.PropertyController
	Requests *controllers.AgencyRequestController
	Admin    *controllers.AdminController
	Sync     *controllers.SyncController
	Health   *controllers.HealthController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if p.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterBindingValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger.Named("http")))
	r.Use(metrics.NewHTTPMetrics(p.Config.ServiceName).Middleware())
	r.Use(middleware.CORSMiddleware(p.Config.Server.AllowedOrigin))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/healthz", p.Health.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.POST("/api/sync-daily", p.Sync.SyncDaily)

	r.POST("/auth/login", p.Account.Login)

	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware(p.Tokens, p.Accounts))
	authed.POST("/auth/signout", p.Account.SignOut)
	authed.GET("/me", middleware.ResolvePrincipal(p.Gate), p.Account.Me)

	clientGroup := authed.Group("/client")
	clientGroup.Use(middleware.RequireRoles(p.Gate, db_models.ClientOnly...))
	clientGroup.GET("/listings", p.Client.Listings)
	clientGroup.POST("/requests/:propertyId", p.Client.SubmitRequest)
	clientGroup.GET("/requests", p.Client.MyRequests)

	agentGroup := authed.Group("/agent")
	agentGroup.Use(middleware.RequireRoles(p.Gate, db_models.StaffRoles...))
	agentGroup.GET("/clients", p.Clients.List)
	agentGroup.POST("/clients", p.Clients.Create)
	agentGroup.GET("/clients/:clientId", p.Clients.Get)
	agentGroup.GET("/clients/:clientId/criteria", p.Clients.GetCriteria)
	agentGroup.PUT("/clients/:clientId/criteria", p.Clients.UpsertCriteria)
	agentGroup.GET("/clients/:clientId/subscriptions", p.Clients.ListSubscriptions)
	agentGroup.POST("/clients/:clientId/subscriptions", p.Clients.RecordSubscription)

	agentGroup.GET("/properties", p.Property.List)
	agentGroup.POST("/properties", p.Property.Create)
	agentGroup.GET("/properties/:propertyId", p.Property.Get)
	agentGroup.PUT("/properties/:propertyId", p.Property.Update)
	agentGroup.PATCH("/properties/:propertyId/status", p.Property.SetStatus)

	agentGroup.GET("/requests", p.Requests.List)
	agentGroup.POST("/requests/:requestId/decision", p.Requests.Decide)

	adminGroup := authed.Group("/admin")
	adminGroup.Use(middleware.RequireRoles(p.Gate, db_models.AdminOnly...))
	adminGroup.POST("/agents", p.Admin.CreateAgent)
}
