package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	StorageBackendMemory = "memory"
	StorageBackendMongo  = "mongo"
	DefaultStorageBackend = StorageBackendMemory

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "reservio"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaTopic = "reservio.reservations"

	DefaultTokenTTL = 24 * time.Hour

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultLockTTL        = 10 * time.Second

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
