package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Health        HealthConfig
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
	Env          string `envconfig:"AGRIFERTI_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRIFERTI_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"AGRIFERTI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRIFERTI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGRIFERTI_DB_DSN"`
	Driver string `envconfig:"AGRIFERTI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRIFERTI_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRIFERTI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRIFERTI_DB_USER"`
	LegacyPassword string `envconfig:"AGRIFERTI_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRIFERTI_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRIFERTI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRIFERTI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRIFERTI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRIFERTI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRIFERTI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRIFERTI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRIFERTI_REDIS_ADDR"`
	Password     string        `envconfig:"AGRIFERTI_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRIFERTI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRIFERTI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRIFERTI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRIFERTI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRIFERTI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRIFERTI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AGRIFERTI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AGRIFERTI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AGRIFERTI_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"AGRIFERTI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGRIFERTI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGRIFERTI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGRIFERTI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGRIFERTI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGRIFERTI_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL    time.Duration `envconfig:"AGRIFERTI_OTP_TTL" default:"5m"`
	Digits int           `envconfig:"AGRIFERTI_OTP_DIGITS" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow          time.Duration `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginAccountLimit    int           `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_LOGIN_ACCOUNT_LIMIT" default:"5"`
	LoginIPLimit         int           `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow         time.Duration `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupAccountLimit   int           `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_SIGNUP_ACCOUNT_LIMIT" default:"3"`
	SignupIPLimit        int           `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	OTPRequestWindow     time.Duration `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_OTP_WINDOW" default:"5m"`
	OTPRequestPhoneLimit int           `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPRequestIPLimit    int           `envconfig:"AGRIFERTI_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"AGRIFERTI_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"AGRIFERTI_SQLITE_PATH" default:"file:agriferti?mode=memory&cache=shared"`
	AutoMigrate bool   `envconfig:"AGRIFERTI_AUTO_MIGRATE" default:"false"`
}

type HealthConfig struct {
	PollInterval time.Duration `envconfig:"AGRIFERTI_HEALTH_POLL_INTERVAL" default:"30s"`
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
