package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	_ "github.com/joho/godotenv/autoload"

	"portfolio-server/handler"
	"portfolio-server/internal/integrations/emailrelay"
	"portfolio-server/internal/integrations/groq"
	"portfolio-server/internal/integrations/openweather"
	"portfolio-server/internal/integrations/paramstore"
	"portfolio-server/internal/repository"
	"portfolio-server/internal/usecase"
)

const (
	weatherCity    = "General Santos City"
	weatherCountry = "PH"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	groqKey := os.Getenv("GROQ_API_KEY")
	weatherKey := os.Getenv("OPENWEATHER_API_KEY")
	redisURL := os.Getenv("REDIS_URL")
	ownerSecret := envDefault("OWNER_SECRET", "archilles")
	relayService := envDefault("EMAILJS_SERVICE_ID", "service_rtivf1l")
	relayTemplate := envDefault("EMAILJS_TEMPLATE_ID", "template_bbw20uh")
	relayPublicKey := envDefault("EMAILJS_PUBLIC_KEY", "zseLnDIgoVQw3j6Vz")
	paramPrefix := os.Getenv("PARAM_PREFIX")
	port := envDefault("PORT", "8080")

	// ---- Integrations ----
	llm := groq.NewClient(groqKey)
	if !llm.Configured() {
		// Chat requests will fail hard; there is no canned substitute.
		slog.Warn("GROQ_API_KEY not set, chat requests will be rejected")
	}

	relay, err := emailrelay.NewClient(relayService, relayTemplate, relayPublicKey)
	if err != nil {
		slog.Error("failed to create email relay client", "err", err)
		os.Exit(1)
	}

	weatherProvider := openweather.NewClient(weatherKey, weatherCity, weatherCountry)
	if !weatherProvider.Configured() {
		slog.Warn("weather provider not configured, serving fallback conditions")
	}

	persona := usecase.NewPersona(newParamGetter(ctx, paramPrefix), paramPrefix)

	// ---- Services ----
	weatherService := usecase.NewWeatherService(weatherProvider, weatherCity)

	chatService, err := usecase.NewChatService(llm, persona, weatherService)
	if err != nil {
		slog.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	assistantService, err := usecase.NewAssistantService(chatService, relay)
	if err != nil {
		slog.Error("failed to create assistant service", "err", err)
		os.Exit(1)
	}

	ratingService, err := usecase.NewRatingService(relay)
	if err != nil {
		slog.Error("failed to create rating service", "err", err)
		os.Exit(1)
	}

	views := newViewCounter(redisURL)

	// ---- HTTP ----
	h, err := handler.New(chatService, assistantService, weatherService, ratingService, views, ownerSecret)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	r := gin.Default()
	h.RegisterRoutes(r)

	slog.Info("starting portfolio server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// newViewCounter wires the Redis-backed view counter, or nil when no
// store is configured so the view endpoints serve their fallbacks.
func newViewCounter(redisURL string) repository.VisitRecorder {
	if redisURL == "" {
		slog.Warn("REDIS_URL not set, view counter disabled")
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL, view counter disabled", "err", err)
		return nil
	}
	views, err := repository.NewViews(redis.NewClient(opts))
	if err != nil {
		slog.Error("failed to create view counter", "err", err)
		return nil
	}
	return views
}

// newParamGetter wires the SSM-backed persona source when a parameter
// prefix is configured; otherwise the compiled-in profile is used.
func newParamGetter(ctx context.Context, paramPrefix string) usecase.ParamGetter {
	if paramPrefix == "" {
		return nil
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}
	ps, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	return ps
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
