package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawsite-backend/internal/assist"
	"lawsite-backend/internal/auth"
	"lawsite-backend/internal/bookings"
	"lawsite-backend/internal/cache"
	"lawsite-backend/internal/calendly"
	"lawsite-backend/internal/config"
	"lawsite-backend/internal/content"
	"lawsite-backend/internal/db"
	"lawsite-backend/internal/leads"
	"lawsite-backend/internal/metrics"
	"lawsite-backend/internal/middleware"
	"lawsite-backend/internal/notifications"
	"lawsite-backend/internal/sitesettings"
	"lawsite-backend/internal/slots"
	"lawsite-backend/internal/staff"
	"lawsite-backend/internal/transport"
	"lawsite-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewMemory(time.Minute)
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("redis connected")
		cacheStore = redisCache.WithPrefix("lawsite:")
	} else {
		logger.Info("redis not configured, using in-process cache")
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "lawsite-backend",
		}
	}

	appMetrics := metrics.New("lawsite")
	val := validation.New()

	var bookingMailer bookings.Mailer
	var leadMailer leads.Mailer
	brevo := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.EnquiryToEmail, cfg.BrevoSandbox, cfg.Timezone)
	if brevo == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		bookingMailer = brevo
		if cfg.EnquiryToEmail != "" {
			leadMailer = brevo
		}
	}

	slotsService := slots.NewService(slots.NewRepository(cols.Slots), nil, cacheStore, cfg.CacheTTL(), cfg.Timezone, logger)
	bookingsService := bookings.NewService(bookings.NewRepository(cols.BookingSubmissions), slotsService, val, cfg.Timezone)
	slotsService.SetPurger(bookingsService)

	slotsHandler := slots.NewHandler(slotsService, val, logger)
	bookingsHandler := bookings.NewHandler(bookingsService, val, logger, bookingMailer, appMetrics)

	leadsHandler := leads.NewHandler(leads.NewService(leads.NewRepository(cols.Leads), val, cfg.Timezone), logger, leadMailer, appMetrics)

	settingsService := sitesettings.NewService(sitesettings.NewRepository(cols.Settings), cfg.Timezone)
	if created, err := settingsService.EnsureSeeded(ctx); err != nil {
		logger.Warn("homepage settings seed failed", slog.String("error", err.Error()))
	} else if created {
		logger.Info("homepage settings seeded")
	}
	settingsHandler := sitesettings.NewHandler(settingsService, val, logger)

	contentService := content.NewService(
		content.NewPracticeAreaRepository(cols.PracticeAreas),
		content.NewBlogPostRepository(cols.BlogPosts),
		content.NewCaseStudyRepository(cols.CaseStudies),
		content.NewSitePageRepository(cols.SitePages),
		cfg.Timezone,
	)
	homeHandler := content.NewHomeHandler(contentService, settingsService, logger)
	areasHandler := content.NewResource(contentService.Areas, "practice areas", val, logger)
	postsHandler := content.NewResource(contentService.Posts, "blog posts", val, logger)
	casesHandler := content.NewResource(contentService.Cases, "case studies", val, logger)
	pagesHandler := content.NewResource(contentService.Pages, "site pages", val, logger)

	assistHandler := assist.NewHandler(
		cfg.AssistantEnabled,
		assist.NewThrottle(assist.NewCacheWindowStore(cacheStore), logger),
		contentService,
		assist.NewChatClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, appMetrics),
		appMetrics,
		logger,
	)
	logger.Info("assistant configured", slog.Bool("enabled", cfg.AssistantEnabled), slog.String("model", cfg.LLMModel))

	calendlyHandler := calendly.NewHandler(calendly.NewRepository(cols.Bookings), cfg.CalendlySigningKey, cfg.Timezone, appMetrics, logger)
	if cfg.CalendlySigningKey == "" {
		logger.Warn("calendly signing key not set, webhook signatures are not verified")
	}

	staffHandler := staff.NewHandler(staff.NewService(staff.NewRepository(cols.Users), cfg.Timezone), jwtManager, val, logger, cfg.CookieSecure)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Error("invalid TRUSTED_PROXIES", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.TrustedRealIP(trustedProxies))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	bookingsLimiter := middleware.NewRateLimiter(cfg.RateLimitBookings, window)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, window)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", appMetrics.Handler())
	r.HandleFunc("/webhooks/calendly", calendlyHandler.Webhook)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/home", homeHandler.Get)
		api.Get("/pages/{slug}", pagesHandler.PublicGet)
		api.Get("/practice-areas", areasHandler.PublicList)
		api.Get("/practice-areas/{slug}", areasHandler.PublicGet)
		api.Get("/blog", postsHandler.PublicList)
		api.Get("/blog/{slug}", postsHandler.PublicGet)
		api.Get("/cases", casesHandler.PublicList)
		api.Get("/cases/{slug}", casesHandler.PublicGet)

		api.Get("/slots", slotsHandler.PublicList)
		api.With(bookingsLimiter.Middleware).Post("/slots/{id}/bookings", bookingsHandler.Submit)
		api.With(contactLimiter.Middleware).Post("/contact", leadsHandler.Create)
		api.HandleFunc("/assist", assistHandler.Handle)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", staffHandler.Login)
			admin.Post("/refresh", staffHandler.Refresh)
			admin.Post("/logout", staffHandler.Logout)

			admin.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

				protected.Get("/slots", slotsHandler.AdminList)
				protected.Post("/slots", slotsHandler.AdminCreate)
				protected.Get("/slots/{id}", slotsHandler.AdminGet)
				protected.Put("/slots/{id}", slotsHandler.AdminUpdate)
				protected.Patch("/slots/{id}/availability", slotsHandler.AdminSetAvailability)
				protected.Delete("/slots/{id}", slotsHandler.AdminDelete)

				protected.Get("/bookings", bookingsHandler.AdminList)
				protected.Get("/bookings/{id}", bookingsHandler.AdminGet)
				protected.Patch("/bookings/{id}/payment", bookingsHandler.AdminSetPayment)

				protected.Get("/leads", leadsHandler.AdminList)
				protected.Get("/calendly-bookings", calendlyHandler.AdminList)

				protected.Get("/homepage", settingsHandler.AdminGet)
				protected.Put("/homepage", settingsHandler.AdminUpdate)
				protected.Post("/homepage", settingsHandler.AdminCreate)
				protected.Delete("/homepage", settingsHandler.AdminDelete)

				mountContent(protected, "/practice-areas", areasHandler)
				mountContent(protected, "/blog", postsHandler)
				mountContent(protected, "/cases", casesHandler)
				mountContent(protected, "/pages", pagesHandler)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

type contentRoutes interface {
	AdminList(http.ResponseWriter, *http.Request)
	AdminGet(http.ResponseWriter, *http.Request)
	AdminCreate(http.ResponseWriter, *http.Request)
	AdminUpdate(http.ResponseWriter, *http.Request)
	AdminDelete(http.ResponseWriter, *http.Request)
}

func mountContent(r chi.Router, prefix string, h contentRoutes) {
	r.Get(prefix, h.AdminList)
	r.Post(prefix, h.AdminCreate)
	r.Get(prefix+"/{id}", h.AdminGet)
	r.Put(prefix+"/{id}", h.AdminUpdate)
	r.Delete(prefix+"/{id}", h.AdminDelete)
}
