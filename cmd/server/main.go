package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter degrades to no-op
	rlCfg := config.LoadRateLimitConfig()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	tables := repository.NewTableRepo(db)
	plans := repository.NewTablePlanRepo(db)
	reservations := repository.NewReservationRepo(db)
	ledger := repository.NewTableReservationRepo(db)
	hours := repository.NewOpeningHoursRepo(db)

	// Services.
	planSvc := service.NewTablePlanService(tables, plans)
	bookingSvc := service.NewReservationService(planSvc, ledger, reservations, cfg.PlanPolicy)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	restH := handler.NewRestaurantHandler(restaurants)
	tableH := handler.NewTableHandler(tables, restaurants, planSvc)
	planH := handler.NewTablePlanHandler(restaurants, planSvc)
	hoursH := handler.NewOpeningHoursHandler(restaurants, hours)
	resH := handler.NewReservationHandler(bookingSvc, reservations, restaurants)

	e := echo.New()
	e.Validator = handler.NewValidator()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, restH, hoursH, resH, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterManager(e, restH, tableH, planH, hoursH, resH, cfg.JWTSecret)
	router.RegisterCustomer(e, resH, cfg.JWTSecret)

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
