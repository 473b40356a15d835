package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/contract"
	"github.com/opencrowd/crowdfund-backend/internal/data"
	"github.com/opencrowd/crowdfund-backend/internal/db"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httperror"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httphandler"
	"github.com/opencrowd/crowdfund-backend/internal/serve/middleware"
	"github.com/opencrowd/crowdfund-backend/internal/services"
	"github.com/opencrowd/crowdfund-backend/internal/wallet"
)

const (
	chainWorkerPoolSize = 8
	shutdownTimeout     = 10 * time.Second
)

type Configs struct {
	Port               int
	LogLevel           logrus.Level
	RPCURL             string
	ContractAddress    string
	KeystoreDir        string
	KeystorePassphrase string
	DatabasePath       string
	AppTracker         apptracker.AppTracker
}

type handlerDeps struct {
	Models          *data.Models
	MetricsService  metrics.MetricsService
	AppTracker      apptracker.AppTracker
	Gateway         contract.Gateway
	Session         *wallet.Session
	CampaignService services.CampaignService
	MutationService services.MutationService
}

func Serve(cfg Configs) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initHandlerDeps(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setting up handler dependencies: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("Starting Crowdfund Backend server on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("running server: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Stopping Crowdfund Backend server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func initHandlerDeps(ctx context.Context, cfg Configs) (handlerDeps, error) {
	pool, err := db.OpenConnectionPool(cfg.DatabasePath)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("connecting to the database: %w", err)
	}
	if _, err = db.Migrate(ctx, pool, migrate.Up, 0); err != nil {
		return handlerDeps{}, fmt.Errorf("applying database migrations: %w", err)
	}

	metricsService := metrics.NewMetricsService()
	models, err := data.NewModels(pool, metricsService)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("creating models for Serve: %w", err)
	}

	var client *ethclient.Client
	if cfg.RPCURL != "" {
		client, err = ethclient.DialContext(ctx, cfg.RPCURL)
		if err != nil {
			return handlerDeps{}, fmt.Errorf("dialing RPC node at %s: %w", cfg.RPCURL, err)
		}
	}

	var backend contract.Backend
	if client != nil {
		backend = client
	}
	gateway, err := contract.NewGateway(common.HexToAddress(cfg.ContractAddress), backend)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating contract gateway: %w", err)
	}
	if !gateway.Configured() {
		logrus.Warn("No contract address configured, serving the sample campaign set in demo mode")
	}

	var provider wallet.Provider
	if cfg.KeystoreDir != "" && client != nil {
		keystoreProvider, err := wallet.NewKeystoreProvider(cfg.KeystoreDir, cfg.KeystorePassphrase, client)
		if err != nil {
			return handlerDeps{}, fmt.Errorf("instantiating keystore wallet provider: %w", err)
		}
		go keystoreProvider.Run(ctx)
		provider = keystoreProvider
	}

	session := wallet.NewSession(provider)
	session.Probe(ctx)
	go session.Run(ctx)

	campaignService, err := services.NewCampaignService(gateway, pond.NewPool(chainWorkerPoolSize), metricsService)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating campaign service: %w", err)
	}

	mutationService, err := services.NewMutationService(services.MutationServiceOptions{
		Gateway:         gateway,
		Session:         session,
		CampaignService: campaignService,
		Models:          models,
		MetricsService:  metricsService,
	})
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating mutation service: %w", err)
	}

	return handlerDeps{
		Models:          models,
		MetricsService:  metricsService,
		AppTracker:      cfg.AppTracker,
		Gateway:         gateway,
		Session:         session,
		CampaignService: campaignService,
		MutationService: mutationService,
	}, nil
}

func handler(deps handlerDeps) http.Handler {
	mux := chi.NewRouter()
	mux.NotFound(httperror.ErrorHandler{Error: httperror.NotFound}.ServeHTTP)
	mux.MethodNotAllowed(httperror.ErrorHandler{Error: httperror.MethodNotAllowed}.ServeHTTP)
	mux.Use(middleware.MetricsMiddleware(deps.MetricsService))
	mux.Use(middleware.RecoverHandler(deps.AppTracker))

	mux.Get("/health", httphandler.HealthHandler{
		Gateway:    deps.Gateway,
		AppTracker: deps.AppTracker,
	}.GetHealth)

	mux.Get("/metrics", promhttp.HandlerFor(
		deps.MetricsService.GetRegistry(),
		promhttp.HandlerOpts{},
	).ServeHTTP)

	mux.Route("/campaigns", func(r chi.Router) {
		handler := httphandler.CampaignHandler{
			CampaignService: deps.CampaignService,
			MutationService: deps.MutationService,
			AppTracker:      deps.AppTracker,
		}

		r.Get("/", handler.GetCampaigns)
		r.Post("/", handler.CreateCampaign)
		r.Post("/{id}/contributions", handler.Contribute)
	})

	mux.Route("/wallet", func(r chi.Router) {
		handler := httphandler.WalletHandler{
			Session:        deps.Session,
			MetricsService: deps.MetricsService,
		}

		r.Get("/", handler.GetState)
		r.Post("/", handler.Connect)
		r.Delete("/", handler.Disconnect)
	})

	mux.Get("/transactions", httphandler.TransactionsHandler{
		Models:          deps.Models,
		MutationService: deps.MutationService,
		AppTracker:      deps.AppTracker,
	}.GetTransactions)

	mux.Get("/stats", httphandler.StatsHandler{}.GetStats)

	return mux
}
