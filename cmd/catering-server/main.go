package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mizu-catering/orderhub/internal/admin"
	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/checkout"
	"github.com/mizu-catering/orderhub/internal/config"
	"github.com/mizu-catering/orderhub/internal/httpx"
	"github.com/mizu-catering/orderhub/internal/notify"
	"github.com/mizu-catering/orderhub/internal/order/sqlite"
	"github.com/mizu-catering/orderhub/internal/payment"
	"github.com/mizu-catering/orderhub/internal/pkg/cache"
	"github.com/mizu-catering/orderhub/internal/pkg/telemetry"
	"github.com/mizu-catering/orderhub/internal/schedule"
)

const serviceName = "catering-server"

func main() {
	cfg := config.Load()
	telemetry.InitLogger(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing {
		shutdown, err := telemetry.SetupTracer(ctx, serviceName)
		if err != nil {
			slog.Error("tracer setup failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	orders, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("open order store failed", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer orders.Close()

	var menuCache cache.Cache
	if cfg.RedisAddr != "" {
		menuCache = cache.NewRedis(cfg.RedisAddr, serviceName)
	}

	gateway := payment.NewMemoryGateway()
	users := seedUsers()
	carts := cart.NewStore()
	scheduler := schedule.New(cfg.Schedule)
	mailer := notify.LogMailer{}

	checkoutSvc := checkout.NewService(orders, gateway, mailer, scheduler, carts, cfg.ExternalTimeout)
	adminSvc := admin.NewService(orders, gateway, mailer, users, cfg.ExternalTimeout)

	handler := httpx.NewHandler(carts, scheduler, checkoutSvc, adminSvc, orders, menuCache)
	router := httpx.NewRouter(handler, users)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("catering server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// seedUsers registers the development accounts and their static bearer
// tokens. A real deployment swaps this for the account system's adapter.
func seedUsers() *auth.MemoryUsers {
	users := auth.NewMemoryUsers()

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin-dev-password"), bcrypt.DefaultCost)
	users.AddUser(auth.User{
		ID:           "usr_admin",
		Email:        "admin@mizu.example",
		Name:         "Site Admin",
		Role:         auth.RoleAdmin,
		PasswordHash: string(adminHash),
	}, "admin-token")

	userHash, _ := bcrypt.GenerateFromPassword([]byte("customer-dev-password"), bcrypt.DefaultCost)
	users.AddUser(auth.User{
		ID:           "usr_demo",
		Email:        "demo@mizu.example",
		Name:         "Demo Customer",
		Role:         auth.RoleUser,
		PasswordHash: string(userHash),
	}, "demo-token")

	return users
}
