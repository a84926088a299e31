package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/workhive/workhive-backend/internal/config"
	"github.com/workhive/workhive-backend/internal/db"
	"github.com/workhive/workhive-backend/internal/gateway"
	"github.com/workhive/workhive-backend/internal/handlers"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/notify"
	"github.com/workhive/workhive-backend/internal/services/escrow"
	"github.com/workhive/workhive-backend/internal/services/jobs"
	"github.com/workhive/workhive-backend/internal/services/proposals"
	"github.com/workhive/workhive-backend/internal/services/wallet"
	"github.com/workhive/workhive-backend/internal/services/withdrawals"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := notify.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}
	notifier := notify.NewRedisNotifier(rdb, cfg.NotifyChannel)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.FreelancerProfile{},
		&models.Job{},
		&models.Proposal{},
		&models.Milestone{},
		&models.Payment{},
		&models.WalletTransaction{},
		&models.Withdrawal{},
	); err != nil {
		log.Fatal(err)
	}

	walletSvc := wallet.NewService(gdb)
	jobSvc := jobs.NewService(gdb, notifier)
	proposalSvc := proposals.NewService(gdb, notifier)
	ledger := escrow.NewLedger(gdb, gateway.NewSandbox(), walletSvc, notifier)
	withdrawalSvc := withdrawals.NewService(gdb, walletSvc, notifier)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	jobH := handlers.NewJobHandler(jobSvc)
	proposalH := handlers.NewProposalHandler(proposalSvc)
	milestoneH := handlers.NewMilestoneHandler(ledger)
	withdrawalH := handlers.NewWithdrawalHandler(withdrawalSvc)
	earningsH := handlers.NewEarningsHandler(gdb)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachAuthContext(),
	)

	// jobs
	protected.Post("/jobs",
		middleware.RequireRoles("client"),
		jobH.Create,
	)
	protected.Get("/jobs/:jobId", jobH.Get)
	protected.Post("/jobs/:jobId/approve",
		middleware.RequireRoles("admin"),
		jobH.Approve,
	)
	protected.Delete("/jobs/:jobId",
		middleware.RequireRoles("client"),
		jobH.Close,
	)
	protected.Put("/jobs/:jobId/reopen",
		middleware.RequireRoles("client"),
		jobH.Reopen,
	)

	// proposals
	protected.Post("/jobs/:jobId/proposals",
		middleware.RequireRoles("freelancer"),
		proposalH.Submit,
	)
	protected.Put("/jobs/:jobId/proposals",
		middleware.RequireRoles("freelancer"),
		proposalH.Update,
	)
	protected.Delete("/jobs/:jobId/proposals",
		middleware.RequireRoles("freelancer"),
		proposalH.Delete,
	)
	protected.Get("/jobs/:jobId/proposals",
		middleware.RequireRoles("client"),
		proposalH.List,
	)
	protected.Post("/jobs/:jobId/proposals/:freelancerId/accept",
		middleware.RequireRoles("client"),
		proposalH.Accept,
	)

	// milestones
	protected.Get("/jobs/:jobId/milestones", milestoneH.List)
	protected.Put("/milestones/:jobId/:freelancerId/:order",
		middleware.RequireRoles("client"),
		milestoneH.Complete,
	)

	// withdrawals
	protected.Post("/withdrawals",
		middleware.RequireRoles("freelancer"),
		withdrawalH.Create,
	)
	protected.Get("/withdrawals", withdrawalH.List)
	protected.Post("/withdrawals/:id/complete",
		middleware.RequireRoles("admin"),
		withdrawalH.Complete,
	)
	protected.Delete("/withdrawals/:id",
		middleware.RequireRoles("admin", "freelancer"),
		withdrawalH.Delete,
	)

	// freelancer earnings
	protected.Get("/freelancer/earnings",
		middleware.RequireRoles("freelancer"),
		earningsH.GetEarnings,
	)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
