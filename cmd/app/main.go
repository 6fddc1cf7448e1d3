package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/clock"
	ordershandler "github.com/WeAreDevs-ops/Discord-botrb/pkg/handlers/orders"
	settingshandler "github.com/WeAreDevs-ops/Discord-botrb/pkg/handlers/settings"
	stockhandler "github.com/WeAreDevs-ops/Discord-botrb/pkg/handlers/stock"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/listings"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/middleware"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/notify"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/orders"
	dydbstore "github.com/WeAreDevs-ops/Discord-botrb/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := awsdynamodb.NewFromConfig(cfg)
	stockTable := os.Getenv("DYNAMODB_STOCK_TABLE_NAME")
	ordersTable := os.Getenv("DYNAMODB_ORDERS_TABLE_NAME")
	settingsTable := os.Getenv("DYNAMODB_SETTINGS_TABLE_NAME")
	if stockTable == "" || ordersTable == "" || settingsTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store := dydbstore.New(dbClient, stockTable, ordersTable, settingsTable)

	// Notification dispatch: SQS queue consumed by the Discord-facing relay.
	var dispatcher notify.Dispatcher = notify.NoOpDispatcher{}
	if queueURL := os.Getenv("SQS_NOTIFY_QUEUE_URL"); queueURL != "" {
		dispatcher = notify.NewSQSDispatcher(sqs.NewFromConfig(cfg), queueURL)
	} else {
		log.Println("SQS_NOTIFY_QUEUE_URL not set, notifications disabled")
	}

	clk := clock.NewSystem()
	ldg := ledger.New(store, clk, ledger.WithLogger(logger))
	index := listings.NewMemoryIndex(nil)
	manager := orders.New(ldg, store, dispatcher, index, clk, orders.WithLogger(logger))

	stockH := stockhandler.NewStockHandler(ldg, store)
	ordersH := ordershandler.NewOrdersHandler(manager, store, store)
	settingsH := settingshandler.NewSettingsHandler(store)

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		log.Fatal("ADMIN_TOKEN environment variable not set")
	}

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(logger))

	router.Route("/tenants/{tenant}", func(r chi.Router) {
		// Buyer-facing routes.
		r.Get("/items", stockH.ListItems)
		r.Post("/orders", ordersH.PlaceOrder)
		r.Get("/orders", ordersH.ListMyOrders)
		r.Get("/orders/{orderID}", ordersH.GetOrder)
		r.Get("/orders/{orderID}/checkout", ordersH.Checkout)

		// Admin routes behind the externally enforced administrator check.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(adminToken))
			r.Post("/stock/consumables", stockH.AddConsumable)
			r.Post("/stock/one-offs", stockH.AddOneOff)
			r.Post("/stock/{itemID}/remove", stockH.RemoveStock)
			r.Put("/stock/{itemID}/price", stockH.SetPrice)
			r.Get("/orders", ordersH.ListAllOrders)
			r.Post("/orders/{orderID}/deliver", ordersH.Deliver)
			r.Get("/settings", settingsH.GetSettings)
			r.Put("/settings/payment-methods", settingsH.SetPaymentMethod)
			r.Put("/settings/channels", settingsH.SetChannels)
		})
	})

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
