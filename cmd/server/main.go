package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/netidea/webbase/internal/config"
	"github.com/netidea/webbase/internal/content"
	"github.com/netidea/webbase/internal/handler"
	"github.com/netidea/webbase/internal/logging"
	"github.com/netidea/webbase/internal/mailer"
	"github.com/netidea/webbase/internal/metrics"
	"github.com/netidea/webbase/internal/ratelimit"
	"github.com/netidea/webbase/internal/repository"
	"github.com/netidea/webbase/internal/service"
	"github.com/netidea/webbase/internal/session"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load(os.Getenv("WEBBASE_CONFIG"))
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := repository.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		store = session.NewRedisStore(client, sessionTTL)
	default:
		mem := session.NewMemoryStore(session.WithIdleTTL(sessionTTL))
		mem.StartJanitor(ctx, time.Minute)
		store = mem
	}
	sessions := session.NewManager(store)

	contactRepo := repository.NewPgContactRepository(pool)
	bookingRepo := repository.NewPgBookingRepository(pool)

	transport, err := mailer.NewSMTPTransport(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPass)
	if err != nil {
		logging.Fatal("smtp transport setup failed", "error", err)
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		logging.Fatal("mail templates failed to parse", "error", err)
	}
	mailman := mailer.NewMailMan(transport, renderer, mailer.Config{
		FromAddress: cfg.Mail.From,
		FromName:    cfg.Mail.FromName,
		ToAddress:   cfg.Mail.To,
		ToName:      cfg.Mail.ToName,
	})

	policy := ratelimit.Policy{
		WindowSeconds:      cfg.RateLimit.WindowSeconds,
		MinIntervalSeconds: cfg.RateLimit.MinIntervalSeconds,
		MaxPerWindow:       cfg.RateLimit.MaxPerWindow,
	}
	contactService := service.NewContactService(contactRepo, mailman, ratelimit.New(), policy)
	bookingService := service.NewBookingService(bookingRepo, mailman)

	pages, err := content.LoadPages(cfg.Content.PagesFile)
	if err != nil {
		logging.Fatal("load pages failed", "error", err)
	}
	site, err := content.NewSite(pages, cfg.Content.Dir)
	if err != nil {
		logging.Fatal("site setup failed", "error", err)
	}

	h := handler.New(pool, cfg.Server.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService, cfg.Admin.Token)
	bookingHandler := handler.NewBookingHandler(bookingService, cfg.Server.BaseURL+"/api/booking/confirm")
	pageHandler := handler.NewPageHandler(site)
	sessionMiddleware := handler.NewSessionMiddleware(sessions, cfg.Session.CookieName, sessionTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/contact", contactHandler.Submit)
	mux.HandleFunc("POST /api/booking", bookingHandler.Request)
	mux.HandleFunc("GET /api/booking/confirm", bookingHandler.Confirm)

	mux.HandleFunc("GET /api/admin/contacts", contactHandler.AdminList)
	mux.HandleFunc("PATCH /api/admin/contacts/{id}/status", contactHandler.UpdateStatus)

	mux.HandleFunc("GET /kontakt", pageHandler.ContactPage)
	mux.HandleFunc("GET /{slug}", pageHandler.Page)
	mux.HandleFunc("GET /{$}", pageHandler.Page)

	chain := sessionMiddleware.Wrap(mux)
	chain = metrics.Middleware(chain)
	chain = handler.RequestLogger(chain)
	chain = h.CORS(chain)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      chain,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
