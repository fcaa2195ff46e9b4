package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// 백엔드 주소 환경변수. 기존 웹 프론트엔드와 같은 키를 그대로 사용해
// 배포 설정(.env)을 공유할 수 있게 한다.
const (
	EnvBackendURL          = "NEXT_PUBLIC_API_URL_GO"
	EnvSecondaryBackendURL = "NEXT_PUBLIC_API_URL_PYTHON"
	EnvWebAddr             = "WEB_ADDR"
	EnvLogLevel            = "LOG_LEVEL"
)

const (
	DefaultBackendURL          = "http://localhost:8080"
	DefaultSecondaryBackendURL = "http://localhost:8000"
	DefaultWebAddr             = ":3000"
	DefaultItemsPerPage        = 12
	DefaultDebounceMillis      = 500
)

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Backend    BackendConfig    `yaml:"backend"`
	Web        WebConfig        `yaml:"web"`
	Search     SearchConfig     `yaml:"search"`
	Pagination PaginationConfig `yaml:"pagination"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BackendConfig 는 PDF 관리 백엔드 접속 정보다.
type BackendConfig struct {
	URL          string `yaml:"url"`
	SecondaryURL string `yaml:"secondary_url"`
	// TimeoutSeconds 는 일반 조회/삭제 요청의 타임아웃이다.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// LongTimeoutSeconds 는 요약 생성, 채팅, 업로드처럼
	// 백엔드가 AI 처리를 끝낼 때까지 블로킹되는 요청의 타임아웃이다.
	LongTimeoutSeconds int `yaml:"long_timeout_seconds"`
}

type WebConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// SessionIdleMinutes 가 지나도록 사용되지 않은 study 세션은 정리된다.
	SessionIdleMinutes int `yaml:"session_idle_minutes"`
}

type SearchConfig struct {
	DebounceMillis int `yaml:"debounce_millis"`
}

type PaginationConfig struct {
	ItemsPerPage int `yaml:"items_per_page"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func (b BackendConfig) LongTimeout() time.Duration {
	return time.Duration(b.LongTimeoutSeconds) * time.Second
}

func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

func (w WebConfig) SessionIdle() time.Duration {
	return time.Duration(w.SessionIdleMinutes) * time.Minute
}

var (
	mu     sync.Mutex
	config *AppConfig
)

// InitApp 은 .env 와 config.yaml 을 읽어 전역 설정을 초기화한다.
// config.yaml 이 없으면 기본값과 환경변수만으로 동작한다.
func InitApp() {
	c, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	mu.Lock()
	config = c
	mu.Unlock()
}

// Load 는 baseDir 기준으로 설정을 읽는다. baseDir 가 비어 있으면 파일 없이 기본값을 사용한다.
func Load(baseDir string) (*AppConfig, error) {
	var c AppConfig

	if baseDir != "" {
		// .env 는 선택 사항이다.
		_ = godotenv.Load(filepath.Join(baseDir, ENV_FILE))

		data, err := os.ReadFile(filepath.Join(baseDir, CONFIG_FILE))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	applyEnv(&c)
	applyDefaults(&c)
	return &c, nil
}

func applyEnv(c *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSecondaryBackendURL)); v != "" {
		c.Backend.SecondaryURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWebAddr)); v != "" {
		c.Web.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SEARCH_DEBOUNCE_MILLIS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.DebounceMillis = n
		}
	}
}

func applyDefaults(c *AppConfig) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendURL
	}
	if c.Backend.SecondaryURL == "" {
		c.Backend.SecondaryURL = DefaultSecondaryBackendURL
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Backend.LongTimeoutSeconds <= 0 {
		c.Backend.LongTimeoutSeconds = 300
	}
	if c.Web.Addr == "" {
		c.Web.Addr = DefaultWebAddr
	}
	if len(c.Web.AllowedOrigins) == 0 {
		c.Web.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Web.SessionIdleMinutes <= 0 {
		c.Web.SessionIdleMinutes = 60
	}
	if c.Search.DebounceMillis <= 0 {
		c.Search.DebounceMillis = DefaultDebounceMillis
	}
	if c.Pagination.ItemsPerPage <= 0 {
		c.Pagination.ItemsPerPage = DefaultItemsPerPage
	}
}

func GetConfig() AppConfig {
	mu.Lock()
	loaded := config != nil
	mu.Unlock()
	if !loaded {
		InitApp()
	}

	mu.Lock()
	defer mu.Unlock()
	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
