package app

import (
	"database/sql"

	"crewpay/internal/attendance"
	"crewpay/internal/audit"
	"crewpay/internal/cashadvance"
	"crewpay/internal/crew"
	"crewpay/internal/deduction"
	"crewpay/internal/messaging/kafka"
	"crewpay/internal/middleware"
	"crewpay/internal/payroll"
	"crewpay/internal/schedule"
	"crewpay/internal/shared/clock"
	"crewpay/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	cashAdvanceRepo := cashadvance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	crewRepo := crew.NewRepository(gormDB)
	deductionRepo := deduction.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)

	// --- Shared collaborators ---
	clk := clock.New()
	auditSink := audit.NewOutboxSink(outboxRepo, clk)
	scheduleProvider := schedule.NewProvider(scheduleRepo)
	rateResolver := payroll.NewRateResolver(crewRepo, scheduleProvider)

	// --- Services ---
	attendanceService := attendance.NewService(attendanceRepo)
	cashAdvanceService := cashadvance.NewServiceWithOutbox(
		db, cashAdvanceRepo, deductionRepo, crewRepo, auditSink, outboxRepo, clk,
	)
	crewService := crew.NewService(crewRepo)
	deductionService := deduction.NewService(db, deductionRepo, crewRepo, auditSink)
	payrollService := payroll.NewService(
		db, payrollRepo, rateResolver, attendanceRepo, deductionRepo,
		crewRepo, counterRepo, auditSink, outboxRepo, clk,
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	cashAdvanceHandler := cashadvance.NewHandler(cashAdvanceService)
	crewHandler := crew.NewHandler(crewService)
	deductionHandler := deduction.NewHandler(deductionService)
	payrollHandler := payroll.NewHandler(payrollService)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ExtractActor())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))
	router.Use(middleware.RateLimitByActor(rate.Limit(10), 20))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		idempotency := middleware.Idempotency(rdb)
		attendance.RegisterRoutes(api, attendanceHandler)
		cashadvance.RegisterRoutes(api, cashAdvanceHandler, idempotency)
		crew.RegisterRoutes(api, crewHandler)
		deduction.RegisterRoutes(api, deductionHandler)
		payroll.RegisterRoutes(api, payrollHandler, idempotency)
	}

	return nil
}
