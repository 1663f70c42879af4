// Package main is the entry point for the CargoRutas tracking server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/engine"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/infra/broker"
	"github.com/davortega/CargoRutas/server/internal/infra/cache"
	"github.com/davortega/CargoRutas/server/internal/infra/storage"
	"github.com/davortega/CargoRutas/server/internal/network"
	"github.com/davortega/CargoRutas/server/internal/platform/config"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
	"github.com/davortega/CargoRutas/server/internal/platform/metrics"
	"github.com/davortega/CargoRutas/server/internal/platform/tuning"
)

// TransferPersisterAdapter translates CargoTransfer events to durable
// transfer rows, one per tracked end, and optionally mirrors them onto the
// message broker.
type TransferPersisterAdapter struct {
	repo      storage.TransferRepository
	publisher *broker.Publisher
	logger    *logger.Logger
}

func (a *TransferPersisterAdapter) Append(event events.Event) error {
	if event.Type != events.EventTypeCargoTransfer {
		return nil
	}
	payload, ok := event.Payload.(engine.CargoTransferPayload)
	if !ok {
		return nil
	}

	ctx := context.Background()

	if payload.FromID != fleet.WorldID {
		row := storage.TransferRow{
			EntityID:    payload.FromID,
			Direction:   storage.DirectionSent,
			Timestamp:   event.Timestamp,
			Destination: string(payload.Destination),
			Resource:    string(payload.Resource),
			Amount:      payload.Amount,
		}
		if err := a.repo.Append(ctx, row); err != nil {
			metrics.EventPersistErrors.Inc()
			return err
		}
		metrics.EventsPersisted.Inc()
	}
	if payload.ToID != fleet.WorldID {
		row := storage.TransferRow{
			EntityID:    payload.ToID,
			Direction:   storage.DirectionReceived,
			Timestamp:   event.Timestamp,
			Destination: string(payload.Destination),
			Resource:    string(payload.Resource),
			Amount:      payload.Amount,
		}
		if err := a.repo.Append(ctx, row); err != nil {
			metrics.EventPersistErrors.Inc()
			return err
		}
		metrics.EventsPersisted.Inc()
	}

	if a.publisher != nil {
		err := a.publisher.PublishTransfer(ctx, "transfer.recorded", broker.TransferMessage{
			EntityID:    payload.FromID,
			PeerID:      payload.ToID,
			Timestamp:   event.Timestamp,
			Destination: string(payload.Destination),
			Resource:    string(payload.Resource),
			Amount:      payload.Amount,
		})
		if err != nil {
			metrics.BrokerPublishErrors.Inc()
			a.logger.Warn("Broker publish failed for transfer " + payload.FromID + " -> " + payload.ToID + ": " + err.Error())
		}
	}
	return nil
}

// starterFleet is the static roster of tracked entities for the simulated
// city. Vehicle metadata is not persisted; only their ledgers are.
func starterFleet() []*fleet.Vehicle {
	return []*fleet.Vehicle{
		fleet.NewVehicle("V001", "Ruta Norte", fleet.ClassTruck),
		fleet.NewVehicle("V002", "Expreso Minero", fleet.ClassTrain),
		fleet.NewVehicle("V003", "Estrella del Puerto", fleet.ClassShip),
		fleet.NewVehicle("V004", "Correo Aereo 7", fleet.ClassPlane),
		fleet.NewVehicle("V005", "Ruta Costera", fleet.ClassTruck),
		fleet.NewVehicle("V006", "Carguero Fluvial", fleet.ClassShip),
	}
}

// starterRoutes are the recurring hauls the simulation runs on its own.
func starterRoutes() []fleet.Route {
	return []fleet.Route{
		{ID: "R001", FromID: "V001", ToID: "V003", Destination: cargo.DestinationLocal, Resource: cargo.ResourceGoods, Amount: 12, EveryTicks: 2},
		{ID: "R002", FromID: "V002", ToID: fleet.WorldID, Destination: cargo.DestinationExport, Resource: cargo.ResourceOre, Amount: 40, EveryTicks: 3},
		{ID: "R003", FromID: fleet.WorldID, ToID: "V003", Destination: cargo.DestinationImport, Resource: cargo.ResourceCrude, Amount: 25, EveryTicks: 4},
		{ID: "R004", FromID: "V004", ToID: "V005", Destination: cargo.DestinationLocal, Resource: cargo.ResourceMail, Amount: 5, EveryTicks: 1},
		{ID: "R005", FromID: "V006", ToID: fleet.WorldID, Destination: cargo.DestinationExport, Resource: cargo.ResourceFish, Amount: 18, EveryTicks: 5},
	}
}

func bootstrapFleet(ctx context.Context, recon *storage.Reconstructor, eng *engine.Engine, appLogger *logger.Logger) {
	appLogger.Info("Checking DB for persisted ledgers...")

	for _, v := range starterFleet() {
		rebuilt, err := recon.RebuildLedger(ctx, v.ID)
		if err != nil {
			appLogger.Error("Failed to rebuild ledger for " + v.ID + ": " + err.Error())
		} else if rebuilt.Sent().Count() > 0 || rebuilt.Received().Count() > 0 {
			appLogger.Info("Reconstructed ledger for " + v.ID + " from transfer store.")
			v.Ledger = rebuilt
		}
		eng.RegisterVehicle(v)
	}
}

func main() {
	log.Println("[CARGO-SERVER] Initializing CargoRutas tracking server...")

	_ = godotenv.Load()

	cfgPath := os.Getenv("CARGO_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLogger := logger.NewLogger()

	var tun *tuning.Config
	switch os.Getenv("CARGO_TUNING") {
	case "stress":
		tun = tuning.StressTestConfig()
	case "low":
		tun = tuning.LowResourceConfig()
	default:
		tun = tuning.DefaultConfig()
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(tun.DBMaxOpenConns)
	db.SetMaxIdleConns(tun.DBMaxIdleConns)

	transferRepo := storage.NewSQLiteTransferRepository(db)
	persister := &TransferPersisterAdapter{repo: transferRepo, logger: appLogger}

	if cfg.AMQPURL != "" {
		appLogger.Info("Connecting transfer publisher to AMQP broker...")
		pub, err := broker.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			appLogger.Error("AMQP unavailable, continuing without publisher: " + err.Error())
		} else {
			persister.publisher = pub
			defer pub.Close()
		}
	}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(persister)

	appLogger.Info("Bootstrapping Engine Subsystems...")
	simEngine := engine.NewEngine(eventLog, appLogger)
	simEngine.GetResolver().SetCache(cache.NewTotalsCache(cache.NewMemoryClient()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recon := storage.NewReconstructor(transferRepo)
	bootstrapFleet(ctx, recon, simEngine, appLogger)

	for _, r := range starterRoutes() {
		simEngine.AddRoute(r)
	}

	simEngine.Start(ctx)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(simEngine, appLogger, tun)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog, time.Duration(cfg.HubPollMillis)*time.Millisecond)

	reportHandler := network.NewReportHandler(simEngine, appLogger)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		network.ServeWs(hub, w, r)
	})
	router.Handle("/metrics", metrics.Handler())
	reportHandler.RegisterRoutes(router)

	go func() {
		log.Println("[CARGO-SERVER] HTTP API & WS Server listening on " + cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[CARGO-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[CARGO-SERVER] Shutting down...")
}
