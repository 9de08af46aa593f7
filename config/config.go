package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"juniper-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"juniper"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseReconnectRetryCount   int           `env:"DB_RECONNECT_RETRY_COUNT" env-default:"3"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Graph Database (Memgraph) - link-analysis projection of flagged matches
	GraphDBEnabled  bool   `env:"GRAPH_DB_ENABLED" env-default:"false"`
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`

	// Kafka Consumer (screening requests)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"screening-requests"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"juniper-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer (report lifecycle events)
	KafkaOutputTopic  string `env:"KAFKA_OUTPUT_TOPIC" env-default:"screening-events"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Screening
	RowWorkerCount     int     `env:"ROW_WORKER_COUNT" env-default:"8"`
	ScoringWorkerCount int     `env:"SCORING_WORKER_COUNT" env-default:"8"`
	UpsertCodeRatio    float64 `env:"UPSERT_CODE_RATIO" env-default:"0.95"`
	FlagThreshold      float64 `env:"FLAG_THRESHOLD" env-default:"0.8"`
	DedupWindowDays    int     `env:"DEDUP_WINDOW_DAYS" env-default:"60"`
	DedupKeyRatio      float64 `env:"DEDUP_KEY_RATIO" env-default:"0.9"`

	// Schema mapping overrides (external column name -> semantic field).
	// Empty values fall back to the published DTTOT header names.
	ColumnFullName    string `env:"COLUMN_FULL_NAME" env-default:""`
	ColumnDescription string `env:"COLUMN_DESCRIPTION" env-default:""`
	ColumnSuspectType string `env:"COLUMN_SUSPECT_TYPE" env-default:""`
	ColumnDensusCode  string `env:"COLUMN_DENSUS_CODE" env-default:""`
	ColumnBirthPlace  string `env:"COLUMN_BIRTH_PLACE" env-default:""`
	ColumnBirthDate   string `env:"COLUMN_BIRTH_DATE" env-default:""`
	ColumnNationality string `env:"COLUMN_NATIONALITY" env-default:""`
	ColumnAddress     string `env:"COLUMN_ADDRESS" env-default:""`
}
