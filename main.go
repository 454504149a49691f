package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"occupancy/config"
	"occupancy/constants"
	"occupancy/jobs"
	"occupancy/metrics"
	"occupancy/models"
	"occupancy/routes"
	"occupancy/services"
	"occupancy/services/broadcast"
	"occupancy/services/logger"
	"occupancy/services/notification"
	"occupancy/services/state"
	"occupancy/services/store"
)

func openKV(s config.Settings, appLog logger.Logger) (store.KV, error) {
	switch s.StoreBackend {
	case "redis":
		rdb, err := config.ConnectRedis(s)
		if err != nil {
			return nil, err
		}
		appLog.Info("State store: redis at %s", s.RedisAddr)
		return store.NewRedisKV(rdb), nil
	case "postgres":
		db, err := config.ConnectDB(s)
		if err != nil {
			return nil, err
		}
		appLog.Info("State store: postgres %s@%s/%s", s.DBUser, s.DBHost, s.DBName)
		return store.NewGormKV(db), nil
	default:
		appLog.Warn("State store: in-memory, state is lost on restart")
		return store.NewMemoryKV(), nil
	}
}

func openTransport(s config.Settings, appLog logger.Logger) (broadcast.Transport, error) {
	switch s.SyncTransport {
	case "redis":
		rdb, err := config.ConnectRedis(s)
		if err != nil {
			return nil, err
		}
		return broadcast.NewRedisTransport(rdb, s.SyncChannel, appLog), nil
	case "amqp":
		return broadcast.NewAMQPTransport(s.AMQPURL, s.SyncChannel, appLog), nil
	default:
		return broadcast.NewLocalHub(appLog).Endpoint(), nil
	}
}

func main() {
	settings := config.LoadSettings()

	level := logger.ParseLevel(settings.LogLevel)
	appLog, err := logger.NewAppLogger("occupancy", level, settings.LogDir)
	if err != nil {
		appLog = logger.NewDefaultLogger(level)
		appLog.Warn("Log file unavailable, logging to stdout only: %v", err)
	}
	metrics.Register()

	catalog, err := config.LoadCatalog(settings.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load room catalog: %v", err)
	}

	kv, err := openKV(settings, appLog)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	st := store.New(kv, appLog.With("component", "store"))

	loc := settings.Location()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, 10*time.Second)
	initial := st.LoadInitial(loadCtx, catalog.Rooms(), time.Now().In(loc).Format(constants.DateLayout))
	loadCancel()

	container := state.New(initial, state.Options{Location: loc, Logger: appLog.With("component", "state")})

	router, m, c, err := config.InitApp(settings)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	transport, err := openTransport(settings, appLog.With("component", "sync"))
	if err != nil {
		log.Fatalf("Failed to open sync transport: %v", err)
	}
	syncer := broadcast.NewBroadcaster(transport, container, broadcast.Options{
		Logger: appLog.With("component", "sync"),
		OnReceive: func(models.Snapshot) {
			metrics.ObserveSync("in", nil)
		},
	})

	views := services.NewViewHub(m, container.Snapshot, appLog.With("component", "views"))
	reports := services.NewReportGenerator(services.ReportOptions{
		APIKey:  settings.OpenAIKey,
		Model:   settings.ReportModel,
		Timeout: settings.ReportTimeout,
		Logger:  appLog.With("component", "report"),
	})
	if settings.OpenAIKey == "" {
		appLog.Warn("OPENAI_API_KEY not set, reports will use the fallback text")
	}

	facade := services.NewOccupancyFacade(services.FacadeOptions{
		State:     container,
		Store:     st,
		Sync:      syncer,
		Engine:    notification.NewEngine(settings.WarningThreshold, nil),
		Inbox:     notification.NewInbox(),
		Views:     views,
		Reports:   reports,
		TypeOrder: catalog.TypeOrder(),
		Logger:    appLog,
	})
	facade.Start()
	defer facade.Stop()

	go func() {
		if err := syncer.Run(ctx); err != nil {
			appLog.Error("Sync receiver stopped: %v", err)
		}
	}()

	if err := jobs.InitCronJobs(c, facade, settings.ScanSchedule, appLog.With("component", "cron")); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(router, facade, m, appLog)

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Info("Server starting on port %s (instance %s, sync %s)", settings.Port, syncer.Origin(), syncer.TransportName())
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down...")

	<-c.Stop().Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown: %v", err)
	}
	cancel()
	if err := transport.Close(); err != nil {
		appLog.Warn("Closing sync transport: %v", err)
	}
	if err := m.Close(); err != nil {
		appLog.Warn("Closing websocket hub: %v", err)
	}
}
