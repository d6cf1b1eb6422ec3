package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Leganyst/consultation-platform/internal/config"
	"github.com/Leganyst/consultation-platform/internal/db"
	"github.com/Leganyst/consultation-platform/internal/events"
	"github.com/Leganyst/consultation-platform/internal/grpcapi"
	"github.com/Leganyst/consultation-platform/internal/logger"
	"github.com/Leganyst/consultation-platform/internal/model"
	"github.com/Leganyst/consultation-platform/internal/notification"
	"github.com/Leganyst/consultation-platform/internal/repository"
	"github.com/Leganyst/consultation-platform/internal/service"
)

func main() {
	// .env необязателен: в контейнере всё приходит из окружения.
	_ = godotenv.Load()

	// 1. Конфиг.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Логгер.
	zlog, err := logger.New(cfg.App.Env, "consultation-core")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if code := exitCode(zlog, run(cfg, zlog)); code != 0 {
		os.Exit(code)
	}
}

// exitCode логирует причину остановки и сбрасывает логгер: после os.Exit defer уже не сработает.
func exitCode(zlog *zap.Logger, err error) int {
	if err == nil {
		return 0
	}
	zlog.Error("consultation core stopped", zap.Error(err))
	_ = zlog.Sync()
	return 1
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	// 3. Подключаемся к БД через GORM и мигрируем модели.
	gormDB, err := db.Open(&cfg.DB, zlog)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("sql DB: %w", err)
	}
	defer sqlDB.Close()

	isolation, err := cfg.DB.Isolation()
	if err != nil {
		return err
	}

	// 4. Репозитории (реализации на GORM).
	reqRepo := repository.NewGormConsultationReqRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)
	consultationRepo := repository.NewGormConsultationRepository(gormDB)
	maintenanceRepo := repository.NewGormMaintenanceRepository(gormDB)
	bookingTx := repository.NewGormConsultationBookingTx(gormDB, isolation)

	// 5. Уведомления.
	loc, err := cfg.Notification.Location()
	if err != nil {
		return err
	}
	mailer := notification.NewSMTPMailer(cfg.Mail)
	composer := notification.NewComposer(cfg.Notification, loc)

	acceptanceSvc := service.NewAcceptanceService(
		cfg.Acceptance,
		reqRepo, userRepo, consultationRepo, maintenanceRepo, bookingTx,
		mailer, composer,
		zlog,
	)

	if cfg.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka, zlog)
		if err != nil {
			return fmt.Errorf("init kafka publisher: %w", err)
		}
		defer publisher.Close()
		acceptanceSvc.WithEventPublisher(publisher)
	} else {
		zlog.Info("kafka brokers not configured, event publishing disabled")
	}

	// 6. Настраиваем gRPC-сервер.
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcapi.LoggingInterceptor(zlog)))
	grpcapi.Register(grpcServer, grpcapi.NewConsultationServer(acceptanceSvc, zlog))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(grpcapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.App.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.App.GRPCAddr, err)
	}

	zlog.Info("core gRPC server listening", zap.String("addr", cfg.App.GRPCAddr))

	// 7. Запускаем сервер в горутине.
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(lis)
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("grpc serve: %w", err)
	case sig := <-stop:
		zlog.Info("shutting down gRPC server", zap.String("signal", sig.String()))
	}

	healthSrv.Shutdown()
	grpcServer.GracefulStop()
	return nil
}
