package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// HTTPConfig holds HTTP listener settings
type HTTPConfig struct {
	Host string
	Port int
}

// DetectionConfig tunes the driving state machine and visit detection
type DetectionConfig struct {
	VisitThreshold time.Duration // dwell must strictly exceed this to count as a visit
	POILookup      bool          // resolve POI names for unlabeled visits
	MaxEvents      int           // event log capacity
}

// LocationConfig configures best-effort fix acquisition
type LocationConfig struct {
	AgentURL     string
	FixTimeout   time.Duration
	CachedMaxAge time.Duration
}

// GeocodeConfig configures the reverse-geocoding client
type GeocodeConfig struct {
	BaseURL   string
	UserAgent string
	Pace      time.Duration // minimum spacing between requests
}

// NotifyConfig configures the push notification sink
type NotifyConfig struct {
	TopicURL string
}

// AuthConfig holds the device API token secret
type AuthConfig struct {
	DeviceSecret string
}

// Config is the full application configuration
type Config struct {
	Environment string
	HTTP        HTTPConfig
	DBPath      string
	Detection   DetectionConfig
	Location    LocationConfig
	Geocode     GeocodeConfig
	Notify      NotifyConfig
	Auth        AuthConfig
}

// Load reads configuration from an env file and the environment,
// applying defaults and validating required settings.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DBPath: v.GetString("DB_PATH"),
		Detection: DetectionConfig{
			VisitThreshold: time.Duration(v.GetInt("VISIT_THRESHOLD_MINUTES")) * time.Minute,
			POILookup:      true,
			MaxEvents:      v.GetInt("MAX_EVENTS"),
		},
		Location: LocationConfig{
			AgentURL:     v.GetString("LOCATION_AGENT_URL"),
			FixTimeout:   v.GetDuration("LOCATION_FIX_TIMEOUT"),
			CachedMaxAge: v.GetDuration("LOCATION_CACHE_MAX_AGE"),
		},
		Geocode: GeocodeConfig{
			BaseURL:   v.GetString("GEOCODE_BASE_URL"),
			UserAgent: v.GetString("GEOCODE_USER_AGENT"),
			Pace:      v.GetDuration("GEOCODE_PACE"),
		},
		Notify: NotifyConfig{
			TopicURL: v.GetString("NOTIFY_TOPIC_URL"),
		},
		Auth: AuthConfig{
			DeviceSecret: v.GetString("DEVICE_JWT_SECRET"),
		},
	}

	if v.IsSet("POI_LOOKUP_ENABLED") {
		cfg.Detection.POILookup = v.GetBool("POI_LOOKUP_ENABLED")
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./data/roadmate.db"
	}
	if cfg.Detection.VisitThreshold == 0 {
		cfg.Detection.VisitThreshold = 10 * time.Minute
	}
	if cfg.Detection.MaxEvents == 0 {
		cfg.Detection.MaxEvents = 500
	}
	if cfg.Location.FixTimeout == 0 {
		cfg.Location.FixTimeout = 3 * time.Second
	}
	if cfg.Location.CachedMaxAge == 0 {
		cfg.Location.CachedMaxAge = 10 * time.Minute
	}
	if cfg.Geocode.BaseURL == "" {
		cfg.Geocode.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocode.UserAgent == "" {
		cfg.Geocode.UserAgent = "roadmate-backend/1.0"
	}
	if cfg.Geocode.Pace == 0 {
		cfg.Geocode.Pace = time.Second
	}
}

func validate(cfg *Config) error {
	if cfg.Auth.DeviceSecret == "" {
		return fmt.Errorf("DEVICE_JWT_SECRET is required")
	}
	if cfg.Detection.MaxEvents < 1 {
		return fmt.Errorf("MAX_EVENTS must be positive")
	}
	return nil
}
