package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/settlement-backend/internal/config"
	"github.com/ignatzorin/settlement-backend/internal/db"
	httpHandlers "github.com/ignatzorin/settlement-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/settlement-backend/internal/http/router"
	"github.com/ignatzorin/settlement-backend/internal/logger"
	"github.com/ignatzorin/settlement-backend/internal/repository"
	"github.com/ignatzorin/settlement-backend/internal/service"
	contractuc "github.com/ignatzorin/settlement-backend/internal/usecase/contract"
	paymentuc "github.com/ignatzorin/settlement-backend/internal/usecase/payment"
	"github.com/ignatzorin/settlement-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret)

	// Репозитории.
	contractRepo := repository.NewContractRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сценарии.
	contractUseCases := httpHandlers.ContractUseCases{
		Create:            contractuc.NewCreateContractUseCase(contractRepo),
		List:              contractuc.NewListMyContractsUseCase(contractRepo),
		Get:               contractuc.NewGetContractUseCase(contractRepo),
		Finalize:          contractuc.NewFinalizeContractUseCase(contractRepo),
		Sign:              contractuc.NewSignContractUseCase(contractRepo),
		Complete:          contractuc.NewCompleteContractUseCase(contractRepo),
		Cancel:            contractuc.NewCancelContractUseCase(contractRepo),
		Dispute:           contractuc.NewDisputeContractUseCase(contractRepo),
		ResolveDispute:    contractuc.NewResolveDisputeUseCase(contractRepo),
		Breakdown:         contractuc.NewGetBreakdownUseCase(contractRepo),
		StartMilestone:    contractuc.NewStartMilestoneUseCase(contractRepo),
		CompleteMilestone: contractuc.NewCompleteMilestoneUseCase(contractRepo),
		DisputeMilestone:  contractuc.NewDisputeMilestoneUseCase(contractRepo),
	}
	paymentUseCases := httpHandlers.PaymentUseCases{
		Initiate: paymentuc.NewInitiatePaymentUseCase(contractRepo, paymentRepo),
		List:     paymentuc.NewListContractPaymentsUseCase(contractRepo, paymentRepo),
		Refund:   paymentuc.NewRefundPaymentUseCase(paymentRepo),
	}
	settleUseCase := paymentuc.NewApplySettlementUseCase(contractRepo, paymentRepo)

	// HTTP хэндлеры.
	contractHandler := httpHandlers.NewContractHandler(contractUseCases, hub)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentUseCases, hub)
	webhookHandler := httpHandlers.NewWebhookHandler(settleUseCase, contractRepo, paymentRepo, hub, cfg.GatewayWebhookSecret)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, contractHandler, paymentHandler, webhookHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(dbConn *sqlx.DB) {
	if err := dbConn.Close(); err != nil {
		log.Printf("main: ошибка закрытия соединения с базой: %v", err)
	}
}
