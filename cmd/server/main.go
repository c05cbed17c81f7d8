package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/quicktickets/backend/internal/config"
	"github.com/quicktickets/backend/internal/database"
	"github.com/quicktickets/backend/internal/email"
	"github.com/quicktickets/backend/internal/handler"
	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/payment"
	"github.com/quicktickets/backend/internal/queue"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/internal/router"
	"github.com/quicktickets/backend/internal/scheduler"
	"github.com/quicktickets/backend/internal/service"
	"github.com/quicktickets/backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Bootstrap(ctx, db); err != nil {
		log.Fatal("schema bootstrap failed", "error", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, response cache and rate limiting disabled")
	}
	payment.Init(cfg.StripeSecretKey)

	// Repositories.
	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	categories := repository.NewCategoryRepo(db)
	orders := repository.NewOrderRepo(db)
	tickets := repository.NewTicketRepo(db)
	reminders := repository.NewReminderRepo(db)
	purchases := repository.NewPurchaseRepo(db, events, orders, tickets)

	// Messaging. The publisher feeds the queue; the consumer drains it
	// into SMTP. Both sides tolerate broker downtime.
	publisher := queue.NewPublisher(cfg.RabbitURL, log)
	sender := email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, log)
	go queue.StartEmailConsumer(cfg.RabbitURL, sender, log)

	// Reminder scheduler: fire by publishing onto the same email queue.
	sched := scheduler.New(reminders, func(ctx context.Context, j model.ReminderJob) error {
		return publisher.Publish(ctx, queue.EmailMessage{
			Type:      queue.EmailReminder,
			To:        j.Email,
			Name:      j.FullName,
			EventName: j.EventName,
			EventDate: j.StartsAt,
			Quantity:  j.Quantity,
		})
	}, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal("reminder scheduler start failed", "error", err)
	}

	// Services.
	issuer := service.NewIssuer(cfg.PublicBaseURL)
	availability := service.NewAvailabilityService(events)
	orderSvc := service.NewOrderService(events, users, purchases, issuer, publisher, sched, log)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(users, publisher, log, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost),
		Users:      handler.NewUserHandler(users, cfg.BcryptCost),
		Events:     handler.NewEventHandler(events, availability),
		Categories: handler.NewCategoryHandler(categories),
		Orders:     handler.NewOrderHandler(orderSvc, orders),
		Tickets:    handler.NewTicketHandler(tickets, events, users, issuer),
		Payments:   handler.NewPaymentHandler(events, payment.CreateIntent, log),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	router.RegisterPublic(e, h, cacheCfg, rdb)
	router.RegisterAuth(e, h, rlCfg, rdb)
	router.RegisterCustomer(e, h, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterOrganizer(e, h, cfg.JWTSecret)
	router.RegisterAdmin(e, h, cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Info("http server stopped", "error", err)
		}
	}()

	// Block until a shutdown signal, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
