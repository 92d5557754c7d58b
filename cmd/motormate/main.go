package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/motormate/motormate/internal/auth"
	"github.com/motormate/motormate/internal/cloudsync"
	"github.com/motormate/motormate/internal/db"
	"github.com/motormate/motormate/internal/handlers"
	"github.com/motormate/motormate/internal/middleware"
	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/radar"
	"github.com/motormate/motormate/internal/registry"
	"github.com/motormate/motormate/internal/store"
	"github.com/motormate/motormate/internal/telemetry"
	"github.com/motormate/motormate/internal/triplog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	dataFile := os.Getenv("MOTORMATE_DATA_FILE")
	if dataFile == "" {
		dataFile = "motormate.json"
	}

	fileStore, err := store.OpenFile(dataFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to open data file")
	}

	reg := registry.New(fileStore)
	if err := reg.Initialize(); err != nil {
		log.WithError(err).Fatal("Failed to load vehicle data")
	}
	log.WithFields(log.Fields{
		"data_file": dataFile,
		"vehicles":  len(reg.Vehicles()),
	}).Info("Vehicle registry loaded")

	ledger := triplog.New(reg)

	// Position stream: a live MQTT feed when a broker is configured, a
	// simulated walk otherwise.
	var positions telemetry.PositionSource
	var obd telemetry.Source
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		client, err := telemetry.ConnectMQTT(broker, "motormate-server")
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		positions = telemetry.NewMQTTPositionSource(client)
		obd = telemetry.NewMQTTSource(client)
		log.WithField("broker", broker).Info("Using MQTT position and OBD feeds")
	} else {
		positions = telemetry.NewSimulatedPositionSource(models.Location{Lat: 9.9312, Lon: 76.2673})
		obd = telemetry.NewSimulatedSource()
		log.Info("No MQTT_BROKER set, using simulated feeds")
	}

	scanner, err := radar.New(fileStore, positions, nil)
	if err != nil {
		log.WithError(err).Fatal("Failed to load camera marks")
	}

	mux := http.NewServeMux()

	vehicles := handlers.NewVehicleHandler(reg)
	mux.HandleFunc("/api/vehicles", vehicles.List)
	mux.HandleFunc("/api/vehicles/save", vehicles.Save)
	mux.HandleFunc("/api/vehicles/activate", vehicles.Activate)
	mux.HandleFunc("/api/vehicles/active", vehicles.Active)
	mux.HandleFunc("/api/vehicles/reset", vehicles.Reset)

	logs := handlers.NewLogHandler(reg)
	mux.HandleFunc("/api/fuel", logs.AddFuel)
	mux.HandleFunc("/api/service", logs.AddService)
	mux.HandleFunc("/api/care/wash", logs.MarkWashed)
	mux.HandleFunc("/api/care/tyres", logs.MarkTyreChecked)
	mux.HandleFunc("/api/documents", logs.Documents)
	mux.HandleFunc("/api/documents/delete", logs.DeleteDocument)

	stats := handlers.NewStatsHandler(reg)
	mux.HandleFunc("/api/dashboard", stats.Dashboard)
	mux.HandleFunc("/api/insights", stats.Insights)
	mux.HandleFunc("/api/care", stats.Care)
	mux.HandleFunc("/api/trip-cost", stats.TripCost)

	trips := handlers.NewTripHandler(ledger)
	mux.HandleFunc("/api/trips/start", trips.Start)
	mux.HandleFunc("/api/trips/expense", trips.AddExpense)
	mux.HandleFunc("/api/trips/end", trips.End)
	mux.HandleFunc("/api/trips/active", trips.Active)
	mux.HandleFunc("/api/trips/history", trips.History)
	mux.HandleFunc("/api/trips/split", trips.Split)

	radarHandler := handlers.NewRadarHandler(scanner)
	mux.HandleFunc("/api/radar/start", radarHandler.Start)
	mux.HandleFunc("/api/radar/stop", radarHandler.Stop)
	mux.HandleFunc("/api/radar/status", radarHandler.Status)
	mux.HandleFunc("/api/radar/cameras", radarHandler.Cameras)

	obdHandler := handlers.NewOBDHandler(obd)
	mux.HandleFunc("/api/obd/current", obdHandler.Current)

	exports := handlers.NewExportHandler(reg)
	mux.HandleFunc("/api/export/fuel", exports.FuelCSV)
	mux.HandleFunc("/api/export/service", exports.ServiceCSV)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	// Cloud backup needs MongoDB. Without it the app still runs; it just
	// stays offline.
	if client, err := db.ConnectMongo(); err != nil {
		log.WithError(err).Warn("MongoDB unavailable, cloud backup disabled")
	} else {
		dbName := os.Getenv("MONGO_DB")
		if dbName == "" {
			dbName = "motormate"
		}
		database := client.Database(dbName)
		users := &db.MongoUserCollection{Collection: database.Collection("users")}
		snapshots := &db.MongoSnapshotCollection{Collection: database.Collection("snapshots")}

		accounts := auth.NewAccounts(users, authService)
		bridge := cloudsync.New(snapshots, reg, accounts.Session().Current, nil)
		reg.SetPushHook(bridge.PushSnapshot)

		// Back up the local data as soon as someone signs in, so a fresh
		// session starts from a pushed snapshot even before the first edit.
		accounts.Session().OnChange(func(signedIn bool) {
			if signedIn {
				go bridge.PushSnapshot(reg.Snapshot())
			}
		})

		authHandler := handlers.NewAuthHandler(accounts)
		mux.HandleFunc("/api/auth/login", authHandler.Login)
		mux.HandleFunc("/api/auth/register", authHandler.Register)
		mux.HandleFunc("/api/auth/logout", authHandler.Logout)
		mux.HandleFunc("/api/auth/reset", authHandler.PasswordReset)

		syncHandler := handlers.NewSyncHandler(bridge)
		mux.HandleFunc("/api/sync/push", syncHandler.Push)
		mux.HandleFunc("/api/sync/pull", syncHandler.Pull)

		log.Info("Cloud backup enabled")
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
