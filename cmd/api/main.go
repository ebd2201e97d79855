package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/example/marketplace/internal/api"
	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/checkout"
	"github.com/example/marketplace/internal/config"
	"github.com/example/marketplace/internal/domain/cart"
	"github.com/example/marketplace/internal/domain/inventory"
	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/domain/payment"
	"github.com/example/marketplace/internal/domain/product"
	"github.com/example/marketplace/internal/domain/review"
	"github.com/example/marketplace/internal/domain/user"
	"github.com/example/marketplace/internal/infrastructure/kafka"
	redisstore "github.com/example/marketplace/internal/infrastructure/redis"
	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/realtime"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Failed to load config: %v", err)
	}
	if err := cfg.ValidateJWT(); err != nil {
		log.Fatalf("[API] %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Marketplace API")
	log.Println("[API] ========================================")
	log.Printf("[API] Kafka: %v", cfg.Brokers())
	log.Printf("[API] Topic: %s", cfg.KafkaTopic)
	log.Printf("[API] Redis: %s", cfg.RedisAddr)

	// Kafka producer: the change feed every store publishes to.
	producer := kafka.NewProducer(cfg.Brokers(), cfg.KafkaTopic)
	defer producer.Close()

	// PostgreSQL
	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	if err := store.EnsureSchema(db); err != nil {
		log.Fatalf("[API] Failed to ensure schema: %v", err)
	}
	log.Println("[API] Connected to PostgreSQL")

	// Redis (carts)
	redisClient, err := redisstore.Connect(ctx, cfg.RedisAddr, "", 0)
	if err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("[API] Connected to Redis")

	// Stores
	productStore := store.NewPostgresProductStore(db, producer)
	orderStore := store.NewPostgresOrderStore(db, producer)

	var ledgerStore inventory.Store
	if cfg.LedgerBackend == "dynamo" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("[API] Failed to load AWS config: %v", err)
		}
		ledgerStore = store.NewDynamoLedgerStore(dynamodb.NewFromConfig(awsCfg), cfg.LedgerTable)
		log.Printf("[API] Inventory ledger: DynamoDB (%s)", cfg.LedgerTable)
	} else {
		ledgerStore = store.NewPostgresLedgerStore(db)
		log.Println("[API] Inventory ledger: PostgreSQL")
	}

	notificationStore := store.NewPostgresNotificationStore(db, producer)
	paymentStore := store.NewPostgresPaymentStore(db)
	userStore := store.NewPostgresUserStore(db)
	reviewStore := store.NewPostgresReviewStore(db)
	cartStore := redisstore.NewCartStore(redisClient)

	// Services
	jwtService := auth.NewJWTService(cfg.JWTSecret, 15*time.Minute, 7*24*time.Hour)
	ledgerSvc := inventory.NewService(ledgerStore)
	notificationSvc := notification.NewService(notificationStore)
	paymentSvc := payment.NewService(paymentStore)
	productSvc := product.NewService(productStore, ledgerSvc)
	cartSvc := cart.NewService(cartStore)
	orderSvc := order.NewService(orderStore, productStore, ledgerSvc, notificationSvc)
	checkoutSvc := checkout.NewService(cartSvc, orderStore, paymentSvc, notificationSvc)
	userSvc := user.NewService(userStore, jwtService)
	reviewSvc := review.NewService(reviewStore, productStore)

	// Realtime bridge: consumes the change feed and fans order updates
	// out to websocket subscribers.
	bridge := realtime.NewBridge()
	hub := realtime.NewHub(bridge)
	go hub.Serve(ctx)

	consumer := kafka.NewConsumer(cfg.Brokers(), cfg.KafkaTopic, "api-realtime")
	defer consumer.Close()
	go func() {
		log.Println("[API] Starting change feed consumer...")
		if err := consumer.Consume(ctx, bridge.HandleMessage); err != nil {
			if ctx.Err() == nil {
				log.Printf("[API] Change feed consumer error: %v", err)
			}
		}
	}()

	// HTTP
	handlers := api.NewHandlers(productSvc, cartSvc, checkoutSvc, orderSvc, notificationSvc, paymentSvc, reviewSvc)
	sellerHandlers := api.NewSellerHandlers(productSvc, orderSvc, userSvc)
	authHandlers := api.NewAuthHandlers(userSvc, jwtService)
	router := api.NewRouter(handlers, sellerHandlers, authHandlers, hub, jwtService)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("[API] Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}
