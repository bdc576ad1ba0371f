package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/adapter/memory"
	"github.com/adega-delivery/backend/internal/adapter/nominatim"
	"github.com/adega-delivery/backend/internal/adapter/postgres"
	"github.com/adega-delivery/backend/internal/adapter/rabbitmq"
	"github.com/adega-delivery/backend/internal/adapter/viacep"
	"github.com/adega-delivery/backend/internal/app/delivery"
	"github.com/adega-delivery/backend/internal/app/motoboy"
	"github.com/adega-delivery/backend/internal/app/order"
	"github.com/adega-delivery/backend/internal/app/stock"
	"github.com/adega-delivery/backend/internal/config"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"

	amqpAdapter "github.com/adega-delivery/backend/internal/adapter/amqp"
	httpAdapter "github.com/adega-delivery/backend/internal/adapter/http"
	redisAdapter "github.com/adega-delivery/backend/internal/adapter/redis"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "api-server", "Service mode: api-server, notification-subscriber")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 0 && *port == 3000 {
		*port = cfg.Server.Port
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	// Connect to RabbitMQ
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api-server":
		runAPIServer(ctx, cfg, mqConn, lgr, *port)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIServer(ctx context.Context, cfg *config.Config, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	// Connect to PostgreSQL
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	// Initialize repositories
	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)
	stockLogRepo := postgres.NewStockLogRepository(db)
	motoboyRepo := postgres.NewMotoboyRepository(db)

	// Initialize messaging
	publisher := rabbitmq.NewPublisher(mqConn)

	// Initialize geocode cache
	var cache interfaces.GeocodeCache
	if cfg.Redis.Enabled {
		redisCache := redisAdapter.NewGeocodeCache(cfg.Redis, cfg.Delivery.CacheTTL())
		defer redisCache.Close()
		cache = redisCache
		lgr.Info("redis_connected", "Using Redis geocode cache", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
	} else {
		cache = memory.NewGeocodeCache(cfg.Delivery.CacheTTL())
	}

	// Initialize external clients
	postalClient := viacep.NewClient(cfg.Delivery.ViaCEPBaseURL, cfg.Delivery.LookupTimeout())
	geocoder := nominatim.NewClient(cfg.Delivery.NominatimBaseURL, cfg.Delivery.UserAgent, cfg.Delivery.LookupTimeout())

	// Initialize services
	orderService := order.NewService(orderRepo, productRepo, stockLogRepo, motoboyRepo, publisher, lgr)
	deliveryService := delivery.NewService(
		postalClient,
		geocoder,
		cache,
		lgr,
		domain.Coordinates{Lat: cfg.Delivery.StoreLat, Lng: cfg.Delivery.StoreLng},
		feeParams(cfg.Delivery),
	)
	motoboyService := motoboy.NewService(motoboyRepo, orderRepo, lgr)
	stockService := stock.NewService(productRepo, lgr)

	// Initialize HTTP handlers
	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)
	deliveryHandler := httpAdapter.NewDeliveryHandler(deliveryService, lgr)
	motoboyHandler := httpAdapter.NewMotoboyHandler(motoboyService, lgr)
	stockHandler := httpAdapter.NewStockHandler(stockService, lgr)

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", orderHandler.CreateOrder)
	mux.HandleFunc("GET /orders", orderHandler.ListOrders)
	mux.HandleFunc("GET /orders/{id}", orderHandler.GetOrder)
	mux.HandleFunc("GET /orders/{id}/items", orderHandler.OrderItems)
	mux.HandleFunc("GET /orders/status/{status}", orderHandler.ListByStatus)
	mux.HandleFunc("GET /orders/user/{userId}", orderHandler.ListByUser)
	mux.HandleFunc("PATCH /orders/{id}/status", orderHandler.UpdateStatus)
	mux.HandleFunc("PATCH /orders/{id}/assign", orderHandler.AssignMotoboy)
	mux.HandleFunc("PATCH /orders/{id}/delivery-fee", orderHandler.AdjustDeliveryFee)
	mux.HandleFunc("POST /delivery/calculate", deliveryHandler.Calculate)
	mux.HandleFunc("GET /motoboys", motoboyHandler.List)
	mux.HandleFunc("GET /motoboys/{id}/orders", motoboyHandler.ActiveOrders)
	mux.HandleFunc("GET /motoboys/{id}/report", motoboyHandler.Report)
	mux.HandleFunc("GET /stock/report", stockHandler.Report)
	mux.HandleFunc("GET /stock/low-stock", stockHandler.LowStock)

	// Apply middleware
	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API server started on port %d", port), "startup", map[string]interface{}{
		"port": port,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize consumer
	consumer := rabbitmq.NewConsumer(mqConn)

	// Initialize handler
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	// Start consuming status changes
	go func() {
		if err := consumer.ConsumeStatusChanges(ctx, notificationHandler.HandleStatusChange); err != nil {
			lgr.Error("consumer_error", "Error consuming status changes", "runtime", nil, err)
		}
	}()

	// Wait for shutdown signal
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
}

// feeParams builds the tiered fee parameters from config, falling back to the
// store defaults when the file leaves them at zero.
func feeParams(d config.DeliveryConfig) domain.FeeParams {
	params := domain.DefaultFeeParams()
	if d.BaseFee > 0 {
		params.BaseFee = decimal.NewFromFloat(d.BaseFee)
	}
	if d.BaseKm > 0 {
		params.BaseKm = d.BaseKm
	}
	if d.PerKmBeyond > 0 {
		params.PerKmBeyond = decimal.NewFromFloat(d.PerKmBeyond)
	}
	return params
}
