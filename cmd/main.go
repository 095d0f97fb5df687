package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"github.com/nader-rabadi/AWSmicroservices/internal/events"
	"github.com/nader-rabadi/AWSmicroservices/internal/handler"
	"github.com/nader-rabadi/AWSmicroservices/internal/reports"
	"github.com/nader-rabadi/AWSmicroservices/internal/repository"
	"github.com/nader-rabadi/AWSmicroservices/internal/service"
	"github.com/nader-rabadi/AWSmicroservices/internal/workflow"
	"github.com/nader-rabadi/AWSmicroservices/pkg/config"
	"github.com/nader-rabadi/AWSmicroservices/pkg/metrics"
	"github.com/nader-rabadi/AWSmicroservices/pkg/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("sfn_enabled", cfg.StateMachineARN != ""),
		zap.Bool("kafka_enabled", cfg.KafkaBrokers != ""))

	var (
		orderStore   service.OrderStore
		productStore service.ProductStore
		contentStore reports.ContentStore
		sfnClient    workflow.SFNClient
	)

	switch cfg.StoreBackend {
	case "aws":
		awsCfg, err := repository.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Fatal("Failed to load AWS config", zap.Error(err))
		}
		dynamoClient := repository.NewDynamoDBClient(awsCfg, cfg.DynamoDBEndpoint)
		orderStore = repository.NewOrderRepository(dynamoClient, cfg.OrdersTableName)
		productStore = repository.NewProductRepository(dynamoClient, cfg.ProductsTableName)
		contentStore = reports.NewS3ContentStore(s3.NewFromConfig(awsCfg), cfg.ReportsBucket)
		if cfg.StateMachineARN != "" {
			sfnClient = sfn.NewFromConfig(awsCfg)
		}
	case "memory":
		memProducts := repository.NewMemoryProductStore()
		seedProducts(memProducts, logger)
		orderStore = repository.NewMemoryOrderStore()
		productStore = memProducts
		contentStore = reports.NewMemoryContentStore()
	default:
		logger.Fatal("Unknown store backend", zap.String("store_backend", cfg.StoreBackend))
	}

	var reconciler service.ReconciliationPublisher
	if cfg.KafkaBrokers != "" {
		producer := events.NewReconciliationProducer(cfg.KafkaBrokers, logger)
		defer producer.Close()
		reconciler = producer
	}

	ledgerMetrics := metrics.NewLedgerMetrics()
	serverMetrics := metrics.NewServerMetrics("fulfillment")

	factory := service.NewOrderFactory(cfg.OrderIDLength, logger)
	ledger := service.NewInventoryLedger(productStore, ledgerMetrics, logger)
	generator := reports.NewGenerator(orderStore, productStore, contentStore, cfg.PresignTTL, logger)
	fulfillment := service.NewFulfillment(factory, orderStore, ledger, generator, reconciler, logger)

	var engine workflow.Engine
	if sfnClient != nil {
		engine = workflow.NewSFNEngine(sfnClient, cfg.StateMachineARN)
	} else {
		engine = workflow.NewLocalEngine("order-fulfillment", fulfillment.Run, cfg.ExecutionTimeout, logger)
	}
	coordinator := workflow.NewCoordinator(engine, logger)

	orderHandler := handler.NewOrderHandler(coordinator, orderStore, logger)
	executionHandler := handler.NewExecutionHandler(coordinator, logger)
	productHandler := handler.NewProductHandler(productStore, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(serverMetrics.Middleware())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", orderHandler.SubmitOrder)
		v1.GET("/orders/:id", orderHandler.GetOrder)
		v1.GET("/products", productHandler.ListProducts)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.GET("/executions/:executionArn", executionHandler.GetStatus)
		v1.GET("/executions/:executionArn/result", executionHandler.GetResult)
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"service": "order-fulfillment",
				"backend": cfg.StoreBackend,
			})
		})
	}
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(level string) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	return logger
}

// seedProducts loads a small catalog so the memory backend is exercisable
// out of the box.
func seedProducts(store *repository.MemoryProductStore, logger *zap.Logger) {
	catalog := []domain.Product{
		{ID: "1", Name: "Espresso Beans 1kg", Price: "18.50", InventoryCount: "25"},
		{ID: "2", Name: "Pour-Over Kettle", Price: "42.00", InventoryCount: "10"},
		{ID: "3", Name: "Ceramic Mug", Price: "9.99", InventoryCount: "40"},
		{ID: "4", Name: "Burr Grinder", Price: "74.95", InventoryCount: "6"},
	}
	for i := range catalog {
		if err := store.Put(context.Background(), &catalog[i]); err != nil {
			logger.Warn("failed to seed product", zap.String("product_id", catalog[i].ID), zap.Error(err))
		}
	}
	logger.Info("seeded product catalog", zap.Int("products", len(catalog)))
}
