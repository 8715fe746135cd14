package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	Workers         int
	SupplierRPS     float64
	SupplierTimeout time.Duration
	// Endpoints overrides supplier URLs by supplier name.
	Endpoints map[string]string
	// Disabled suppliers are not fetched.
	Disabled map[string]bool
}

// supplierURLVars maps supplier names to the env var overriding their endpoint.
var supplierURLVars = map[string]string{
	"acme":       "ACME_URL",
	"paperflies": "PAPERFLIES_URL",
	"patagonia":  "PATAGONIA_URL",
}

// Load reads the configuration from the environment, after loading a .env file
// when one exists. SUPPLIERS_FILE is read first; *_URL variables win over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("var", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("var", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		Workers:         atoi("FETCH_WORKERS", 3),
		SupplierRPS:     atof("SUPPLIER_RPS", 5),
		SupplierTimeout: time.Duration(atoi("SUPPLIER_TIMEOUT_SECONDS", 10)) * time.Second,
		Endpoints:       map[string]string{},
		Disabled:        map[string]bool{},
	}

	if path := os.Getenv("SUPPLIERS_FILE"); path != "" {
		if err := c.loadSuppliersFile(path); err != nil {
			return Config{}, err
		}
	}
	for name, k := range supplierURLVars {
		if v := os.Getenv(k); v != "" {
			c.Endpoints[name] = v
		}
	}
	return c, nil
}

// suppliersFile is the SUPPLIERS_FILE document:
//
//	suppliers:
//	  acme:
//	    url: http://localhost:9000/acme
//	  patagonia:
//	    enabled: false
type suppliersFile struct {
	Suppliers map[string]struct {
		URL     string `yaml:"url"`
		Enabled *bool  `yaml:"enabled"`
	} `yaml:"suppliers"`
}

func (c *Config) loadSuppliersFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("suppliers file: %w", err)
	}
	var doc suppliersFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	// unknown keys (a "priority" for instance) are rejected rather than ignored
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("suppliers file %s: %w", path, err)
	}
	for name, s := range doc.Suppliers {
		if s.URL != "" {
			c.Endpoints[name] = s.URL
		}
		if s.Enabled != nil && !*s.Enabled {
			c.Disabled[name] = true
		}
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
