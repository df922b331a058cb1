package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency   int
	MaxRetries       int
	ObservationsPath string
	SourcesPath      string
	CSVExportPath    string
	Debug            bool

	// ReportMonthOffset shifts the reporting period used for ID allocation
	// and sold_at stamps relative to the processing month. The production
	// feed runs one month behind the crawl, hence the -1 default.
	ReportMonthOffset int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "reid"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "reid123"),
		PostgresDB:       getEnv("POSTGRES_DB", "reid_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:   getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		ObservationsPath: getEnv("OBSERVATIONS_PATH", "./output/observations.jsonl"),
		SourcesPath:      getEnv("SOURCES_PATH", "./sources.yml"),
		CSVExportPath:    getEnv("CSV_EXPORT_PATH", ""),
		Debug:            getEnvBool("DEBUG", false),

		ReportMonthOffset: getEnvInt("REPORT_MONTH_OFFSET", -1),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Registry describes the crawled sources and the classification thresholds.
// It is loaded from a YAML file so new sources can be added without a rebuild.
type Registry struct {
	// SourceCodes maps a source display name to its 4-letter ID code,
	// e.g. "Kibarer" -> "KIBR".
	SourceCodes map[string]string `yaml:"sources"`

	// Luxury price thresholds per currency, in whole currency units.
	LuxuryIDR int64 `yaml:"luxury_idr"`
	LuxuryUSD int64 `yaml:"luxury_usd"`
}

// LoadRegistry reads the source registry from path. A missing file yields
// the built-in defaults so tests and dry runs work without any setup.
func LoadRegistry(path string) (*Registry, error) {
	reg := defaultRegistry()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	if reg.LuxuryIDR == 0 {
		reg.LuxuryIDR = defaultLuxuryIDR
	}
	if reg.LuxuryUSD == 0 {
		reg.LuxuryUSD = defaultLuxuryUSD
	}
	return reg, nil
}

const (
	defaultLuxuryIDR = 78_656_000_000
	defaultLuxuryUSD = 5_000_000
)

func defaultRegistry() *Registry {
	return &Registry{
		SourceCodes: map[string]string{
			"Bali Properties for Sale":     "BOFS",
			"Teal Estate":                  "TEST",
			"Bali Property Direct":         "BPOD",
			"Bali Real Estate Consultants": "BREC",
			"Bali Realty":                  "BREL",
			"Bali Select":                  "BSEL",
			"Bali Treasure Properties":     "BTPR",
			"Heritage Bali":                "HRTB",
			"Unreal Bali":                  "URLB",
			"Exotiq Property":              "EXCP",
			"Kibarer":                      "KIBR",
			"Paradise Property Group":      "PPGB",
			"Lazudi":                       "LAZD",
			"Suasa Real Estate":            "SURE",
			"Svaha Property":               "SVHP",
			"Luxindo Property":             "LUXP",
			"Raja Villa Property":          "RJVP",
			"GD&ASSOCIATES":                "GDAC",
			"Bali Home Immo":               "BHIM",
			"Propertia":                    "PROP",
			"Bali Exception":               "BEXC",
			"Villas of Bali":               "VOFB",
			"Dot Property":                 "DOTP",
			"Bali Coconut Living":          "BCLV",
			"Ray White Indonesia":          "RWID",
			"Bali Moves":                   "BLMV",
			"Ubud Property":                "UBPR",
		},
		LuxuryIDR: defaultLuxuryIDR,
		LuxuryUSD: defaultLuxuryUSD,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
