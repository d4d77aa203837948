// Package config loads server settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
)

const (
	defaultPort      = "8111"
	defaultProjectID = "pfinance-app-1748773335"
	defaultWindow    = 3
)

var defaultOrigins = []string{
	"http://localhost:1234",
	"http://127.0.0.1:1234",
	"https://pfinance.dev",
	"https://www.pfinance.dev",
	"https://pfinance-app-1748773335.web.app",
	"https://pfinance-app-1748773335.firebaseapp.com",
	"https://*.vercel.app",
}

// Config holds everything cmd/server needs to wire the service.
type Config struct {
	Port string
	// Local is set for ENV=local; it forces the memory store and mock auth.
	Local        bool
	StoreBackend string
	SkipAuth     bool
	ProjectID    string

	MongoURI      string
	MongoDatabase string

	GeminiAPIKey string
	GeminiModel  string

	DuplicateWindowDays int
	// BudgetBucketsFile is an optional JSON bucket configuration for the allocator.
	BudgetBucketsFile string

	LogLevel       string
	LogPretty      bool
	AllowedOrigins []string
}

// UsesAuth reports whether requests must carry a Firebase ID token.
func (c Config) UsesAuth() bool {
	return !c.SkipAuth && c.StoreBackend != BackendMemory
}

// Load reads configuration from the process environment, falling back to
// values in files (default ".env"). The environment always wins and the
// process environment is not modified. A missing default .env is not an error.
func Load(files ...string) (Config, error) {
	fileVals := map[string]string{}
	if len(files) > 0 {
		vals, err := godotenv.Read(files...)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read env files: %w", err)
		}
		fileVals = vals
	} else if vals, err := godotenv.Read(); err == nil {
		fileVals = vals
	}

	return fromLookup(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVals[key]
	})
}

func fromLookup(get func(string) string) (Config, error) {
	cfg := Config{
		Port:              orDefault(get("PORT"), defaultPort),
		Local:             get("ENV") == "local",
		SkipAuth:          isTrue(get("SKIP_AUTH")),
		ProjectID:         orDefault(get("GOOGLE_CLOUD_PROJECT"), defaultProjectID),
		MongoURI:          get("MONGO_URI"),
		MongoDatabase:     get("MONGO_DATABASE"),
		GeminiAPIKey:      get("GEMINI_API_KEY"),
		GeminiModel:       get("GEMINI_MODEL"),
		BudgetBucketsFile: get("BUDGET_BUCKETS_FILE"),
		LogLevel:          orDefault(get("LOG_LEVEL"), "info"),
		LogPretty:         isTrue(get("LOG_PRETTY")),
		AllowedOrigins:    defaultOrigins,
	}

	switch {
	case cfg.Local || isTrue(get("USE_MEMORY_STORE")):
		cfg.StoreBackend = BackendMemory
	case get("STORE_BACKEND") != "":
		cfg.StoreBackend = strings.ToLower(strings.TrimSpace(get("STORE_BACKEND")))
	default:
		cfg.StoreBackend = BackendFirestore
	}
	switch cfg.StoreBackend {
	case BackendMemory, BackendFirestore:
	case BackendMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	cfg.DuplicateWindowDays = defaultWindow
	if raw := get("DUPLICATE_WINDOW_DAYS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid DUPLICATE_WINDOW_DAYS %q", raw)
		}
		cfg.DuplicateWindowDays = n
	}

	if raw := get("ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
