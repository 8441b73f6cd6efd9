package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	availabilityhandler "reservio/internal/availability/handler"
	availabilityservice "reservio/internal/availability/service"
	cataloghandler "reservio/internal/catalog/handler"
	catalogrepo "reservio/internal/catalog/repository"
	catalogservice "reservio/internal/catalog/service"
	catalogvalidator "reservio/internal/catalog/validator"
	identityhandler "reservio/internal/identity/handler"
	identityrepo "reservio/internal/identity/repository"
	identityservice "reservio/internal/identity/service"
	reservationhandler "reservio/internal/reservations/handler"
	reservationrepo "reservio/internal/reservations/repository"
	reservationservice "reservio/internal/reservations/service"
	reservationvalidator "reservio/internal/reservations/validator"
	"reservio/pkg/app"
	"reservio/pkg/client"
	"reservio/pkg/config"
	mongotx "reservio/pkg/db/mongo"
	"reservio/pkg/events"
)

const (
	serviceName = "reservio"
	version     = "1.0.0"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load(serviceName)

	ctx := context.Background()
	cfg.Log.Info("Starting reservation service")

	var mongoClient *mongo.Client
	var objectRepo catalogrepo.ObjectRepository
	var reservationRepo reservationrepo.ReservationRepository
	var lockRepo reservationrepo.ObjectLockRepository

	switch cfg.StorageBackend {
	case config.StorageBackendMongo:
		mongoConn := client.NewMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		defer mongoConn.Disconnect(ctx, cfg.Log)
		mongoClient = mongoConn.Client

		db := mongoClient.Database(cfg.MongoDatabaseName)
		txManager := mongotx.NewTransactionManager(mongoClient)
		objectRepo = catalogrepo.NewMongoObjectRepository(db, cfg.RequestTimeout)
		reservationRepo = reservationrepo.NewMongoReservationRepository(db, txManager, cfg.RequestTimeout)
		lockRepo = reservationrepo.NewMongoObjectLockRepository(db)
		if err := reservationrepo.EnsureLockIndexes(ctx, db); err != nil {
			cfg.Log.Fatal("Failed to prepare lock collection", "error", err)
		}
		cfg.Log.Info("Storage backend ready", "backend", "mongo", "database", cfg.MongoDatabaseName)

	default:
		objectRepo = catalogrepo.NewMemoryObjectRepository()
		reservationRepo = reservationrepo.NewMemoryReservationRepository()
		lockRepo = reservationrepo.NewMemoryObjectLockRepository()
		cfg.Log.Info("Storage backend ready", "backend", "memory")
	}

	notifier, producer := initNotifier(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	userRepo := identityrepo.NewMemoryUserRepository()
	authService := identityservice.NewAuthService(userRepo, cfg)
	if cfg.SeedDemoUsers {
		if err := authService.SeedDemoUsers(ctx); err != nil {
			cfg.Log.Fatal("Failed to seed demo users", "error", err)
		}
	}

	objectService := catalogservice.NewObjectService(objectRepo, catalogvalidator.NewObjectValidator(), cfg)
	reservationService := reservationservice.NewReservationService(
		reservationRepo,
		lockRepo,
		objectService,
		reservationvalidator.NewReservationValidator(),
		notifier,
		cfg,
	)
	availabilityService := availabilityservice.NewAvailabilityService(objectService, reservationRepo, cfg)

	serverApp := app.NewApplication(cfg, version, authService, mongoClient,
		cataloghandler.NewObjectHandler(objectService, cfg.Log),
		reservationhandler.NewReservationHandler(reservationService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		identityhandler.NewAuthHandler(authService, cfg.Log),
	)
	serverApp.Run()
}

// initNotifier returns the producer alongside the notifier so main can
// close it once the server has shut down.
func initNotifier(cfg *config.Config) (events.Notifier, *events.Producer) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, lifecycle events disabled")
		return events.NewNoopNotifier(), nil
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka notifier initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return events.NewKafkaNotifier(producer, cfg.Log), producer
}
