package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	RecommenderStrategy   string `env:"RECOMMENDER_STRATEGY" envDefault:"rules"`
	RecommenderMaxResults int    `env:"RECOMMENDER_MAX_RESULTS" envDefault:"5"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Career Advisor"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoginRateLimitMax           int `env:"LOGIN_RATE_LIMIT_MAX" envDefault:"5"`
	LoginRateLimitWindowMinutes int `env:"LOGIN_RATE_LIMIT_WINDOW_MINUTES" envDefault:"10"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
