package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	Env        string
	LogLevel   string

	// Text generation and routing (Ollama by default)
	LLMBaseURL     string
	LLMAPIKey      string
	ChatModel      string
	LLMTemperature float32

	// SQL agent model (Groq by default)
	SQLBaseURL string
	SQLAPIKey  string
	SQLModel   string

	// Speech-to-text
	STTBaseURL string
	STTAPIKey  string
	STTModel   string

	SalesDBDriver string
	SalesDBPath   string
	SalesDBDSN    string

	DocumentPath string
	UploadDir    string
	ChunkSize    int
	ChunkOverlap int

	SearchURL        string
	SearchMaxResults int

	RouterRulesFile string
}

// Load reads configuration from the environment, after loading a .env
// file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getenv("SERVER_ADDR", ":8080"),
		Env:        getenv("ENV", "development"),
		LogLevel:   getenv("LOG_LEVEL", "info"),

		LLMBaseURL:     getenv("LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		ChatModel:      getenv("LLM_MODEL", "mistral"),
		LLMTemperature: float32(getenvFloat("LLM_TEMPERATURE", 0.3)),

		SQLBaseURL: getenv("SQL_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		SQLAPIKey:  os.Getenv("GROQ_API_KEY"),
		SQLModel:   getenv("SQL_LLM_MODEL", "llama3-70b-8192"),

		STTBaseURL: getenv("STT_BASE_URL", "https://api.openai.com/v1"),
		STTAPIKey:  os.Getenv("STT_API_KEY"),
		STTModel:   getenv("STT_MODEL", "whisper-1"),

		SalesDBDriver: getenv("SALES_DB_DRIVER", "sqlite3"),
		SalesDBPath:   getenv("SALES_DB_PATH", "sales.db"),
		SalesDBDSN:    os.Getenv("SALES_DB_DSN"),

		DocumentPath: getenv("DOCUMENT_PATH", "documents_FireSafety.pdf"),
		UploadDir:    getenv("UPLOAD_DIR", "data/pdfs"),
		ChunkSize:    getenvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getenvInt("CHUNK_OVERLAP", 200),

		SearchURL:        getenv("SEARCH_URL", "https://html.duckduckgo.com/html/"),
		SearchMaxResults: getenvInt("SEARCH_MAX_RESULTS", 5),

		RouterRulesFile: os.Getenv("ROUTER_RULES_FILE"),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		errs = append(errs, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap))
	}
	switch c.SalesDBDriver {
	case "sqlite3":
		if c.SalesDBPath == "" && c.SalesDBDSN == "" {
			errs = append(errs, errors.New("SALES_DB_PATH or SALES_DB_DSN is required"))
		}
	case "postgres":
		if c.SalesDBDSN == "" {
			errs = append(errs, errors.New("SALES_DB_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("SALES_DB_DRIVER %q is not supported", c.SalesDBDriver))
	}
	if c.ChatModel == "" || c.SQLModel == "" {
		errs = append(errs, errors.New("LLM_MODEL and SQL_LLM_MODEL must not be empty"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return f
}
