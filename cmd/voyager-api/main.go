// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ringsaturn/tzf"

	"voyager/internal/ai"
	"voyager/internal/config"
	httptransport "voyager/internal/http"
	"voyager/internal/infra"
	"voyager/internal/maps"
	"voyager/internal/modules/auth"
	"voyager/internal/modules/editor"
	"voyager/internal/modules/itinerary"
	"voyager/internal/modules/location"
	"voyager/internal/modules/payment"
	"voyager/internal/modules/trips"
)

const conversationTTL = 2 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()
	if err := infra.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	llm, closeLLM, err := newLLM(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("ai init: %v", err)
	}
	defer closeLLM()

	planner := itinerary.NewService(ai.WithTimeout(llm, cfg.AI.Timeout), logger)
	charger := payment.NewMockCharger(cfg.Payment.Delay, logger)

	engine := editor.NewEngine(planner, charger, cfg.Editor.FreeEdits, cfg.Pricing.EditPrice, logger)

	feed := trips.NewRedisFeed(redisClient, logger)
	registry := trips.NewRegistry(trips.Deps{
		Store:     trips.NewPostgresStore(dbPool, feed, logger),
		Trials:    trips.NewRedisTrialStore(redisClient),
		Feed:      feed,
		Charger:   charger,
		TripPrice: cfg.Pricing.TripPrice,
		Logger:    logger,
	})
	defer registry.Close()

	zones, err := tzf.NewDefaultFinder()
	if err != nil {
		log.Fatalf("timezone finder: %v", err)
	}
	var geocoder location.Geocoder
	if cfg.Maps.APIKey != "" {
		g, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		geocoder = g
	} else {
		logger.Warn("VOYAGER_MAPS_API_KEY not set; location detection disabled")
	}
	locationSvc := location.NewService(geocoder, zones, logger)

	fbAuth, err := infra.NewFirebaseAuth(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	toolkit, err := auth.NewIdentityToolkit(ctx, cfg.Firebase.WebAPIKey)
	if err != nil {
		log.Fatalf("identity toolkit init: %v", err)
	}
	identity := auth.NewProvider(fbAuth, toolkit, auth.NewHub(), logger)

	// Per-user trip state does not outlive the session.
	events, unsubscribe := identity.Events().Subscribe(16)
	defer unsubscribe()
	go func() {
		for e := range events {
			if e.Type == auth.EventSignedOut {
				registry.Drop(e.UID)
			}
		}
	}()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Verifier:      infra.NewFirebaseVerifier(fbAuth),
		Planner:       planner,
		Conversations: itinerary.NewConversationStore(conversationTTL),
		Trips:         registry,
		Edits:         editor.NewSessions(engine),
		Location:      locationSvc,
		Identity:      identity,
		Logger:        logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "err", err)
		}
	}()

	logger.Info("voyager api listening", "addr", cfg.HTTP.Addr, "ai_provider", cfg.AI.Provider)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newLLM(ctx context.Context, cfg config.AIConfig) (ai.LLMProvider, func(), error) {
	models := ai.Models{Fast: cfg.FastModel, Pro: cfg.ProModel}
	if cfg.Provider == "openai" {
		return ai.NewOpenAIProvider(cfg.OpenAIKey, models), func() {}, nil
	}
	p, err := ai.NewGeminiProvider(ctx, cfg.GeminiKey, models)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
