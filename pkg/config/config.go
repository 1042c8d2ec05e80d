package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QUICKPLATE_APP_ENV" required:"true"`
	Port         string `envconfig:"QUICKPLATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QUICKPLATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUICKPLATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QUICKPLATE_DB_DSN"`
	Driver string `envconfig:"QUICKPLATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QUICKPLATE_DB_HOST"`
	LegacyPort     int    `envconfig:"QUICKPLATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QUICKPLATE_DB_USER"`
	LegacyPassword string `envconfig:"QUICKPLATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"QUICKPLATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"QUICKPLATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUICKPLATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUICKPLATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUICKPLATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUICKPLATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUICKPLATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"QUICKPLATE_REDIS_ADDR"`
	Password     string        `envconfig:"QUICKPLATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUICKPLATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUICKPLATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUICKPLATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUICKPLATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUICKPLATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUICKPLATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QUICKPLATE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QUICKPLATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QUICKPLATE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"QUICKPLATE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QUICKPLATE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QUICKPLATE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QUICKPLATE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QUICKPLATE_ARGON_KEY_LEN" default:"32"`
}

// CartConfig carries the fixed pricing knobs applied to every cart.
type CartConfig struct {
	TaxRate     float64       `envconfig:"QUICKPLATE_CART_TAX_RATE" default:"0.10"`
	DeliveryFee float64       `envconfig:"QUICKPLATE_CART_DELIVERY_FEE" default:"3.99"`
	TTL         time.Duration `envconfig:"QUICKPLATE_CART_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"QUICKPLATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"QUICKPLATE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"QUICKPLATE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"QUICKPLATE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"QUICKPLATE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"QUICKPLATE_PUBSUB_ORDERS_TOPIC" default:"qp-order-events"`
	OrdersSubscription string `envconfig:"QUICKPLATE_PUBSUB_ORDERS_SUBSCRIPTION"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
