package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server configures cmd/server, the profile API.
type Server struct {
	// ───── Infrastructure ─────
	DatabaseURL  string
	RedisAddr    string
	KafkaBrokers []string

	// ───── Runtime ─────
	HTTPAddr       string
	ObsHTTPAddr    string
	ServiceName    string
	LogLevel       string
	UploadDir      string
	OutboxInterval time.Duration

	// ───── JWT Security ─────
	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration

	// ───── Rate Limiting ─────
	AuthRateLimitRequests int
	AuthRateLimitWindow   string

	// ───── Observability ─────
	TracingEnabled bool
	JaegerURL      string
}

// Web configures cmd/web, the server-rendered front end.
type Web struct {
	HTTPAddr     string
	APIURL       string
	ImageBaseURL string
	ServiceName  string
	LogLevel     string
	CookieSecure bool

	TracingEnabled bool
	JaegerURL      string
}

func LoadServer() *Server {
	return &Server{
		DatabaseURL:  mustEnv("DATABASE_URL"),
		RedisAddr:    mustEnv("REDIS_ADDR"),
		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),

		HTTPAddr:       fixPort(getEnv("HTTP_ADDR", ":8080")),
		ObsHTTPAddr:    fixPort(getEnv("OBS_HTTP_ADDR", ":8081")),
		ServiceName:    getEnv("SERVICE_NAME", "profile-api"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		OutboxInterval: time.Duration(getEnvInt("OUTBOX_INTERVAL_SEC", 2)) * time.Second,

		JWTSecret:      mustEnv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "xcel-api"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "xcel-clients"),
		AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TTL_MIN", 60)) * time.Minute,

		AuthRateLimitRequests: getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateLimitWindow:   getEnv("AUTH_RATE_WINDOW", "1m"),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

func LoadWeb() *Web {
	apiURL := strings.TrimSuffix(getEnv("API_URL", "https://xcel-back.onrender.com"), "/")
	return &Web{
		HTTPAddr:     fixPort(getEnv("HTTP_ADDR", ":3000")),
		APIURL:       apiURL,
		ImageBaseURL: strings.TrimSuffix(getEnv("IMAGE_BASE_URL", apiURL), "/"),
		ServiceName:  getEnv("SERVICE_NAME", "profile-web"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func getEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func getEnvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int env %s: %v", k, err)
	}
	return i
}

func getEnvBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return strings.ToLower(v) == "true"
}

func getEnvSlice(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return strings.Split(v, ",")
}
