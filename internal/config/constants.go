package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// EnvConfigPath names an alternative config file.
	EnvConfigPath = "JBEST_CONFIG"

	defaultPort          = 5000
	defaultEnv           = "development"
	defaultMongoHost     = "127.0.0.1"
	defaultMongoPort     = 27017
	defaultMongoName     = "jbest_eyes"
	defaultMongoTimeout  = "10s"
	defaultRedisHost     = "localhost"
	defaultRedisPort     = 6379
	defaultRedisDB       = 0
	defaultStorageDriver = StorageLocal
	defaultMaxUploadMB   = 5
	defaultRateMax       = 30
	defaultRateWindow    = "1m"

	StorageLocal = "local"
	StorageS3    = "s3"

	DriverMongo  = "mongo"
	DriverMemory = "memory"
)
