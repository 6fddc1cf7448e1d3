package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/clock"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/ledger"
	dydbstore "github.com/WeAreDevs-ops/Discord-botrb/pkg/storage/dynamodb"
)

var ldg *ledger.Ledger
var defaultTenants []string

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := awsdynamodb.NewFromConfig(cfg)
	stockTable := os.Getenv("DYNAMODB_STOCK_TABLE_NAME")
	ordersTable := os.Getenv("DYNAMODB_ORDERS_TABLE_NAME")
	settingsTable := os.Getenv("DYNAMODB_SETTINGS_TABLE_NAME")
	if stockTable == "" {
		log.Fatal("DYNAMODB_STOCK_TABLE_NAME environment variable not set")
	}

	store := dydbstore.New(dbClient, stockTable, ordersTable, settingsTable)
	ldg = ledger.New(store, clock.NewSystem())

	if tenants := os.Getenv("SWEEP_TENANTS"); tenants != "" {
		defaultTenants = strings.Split(tenants, ",")
	}
}

// SweepEvent optionally names the tenants to sweep; when empty, the
// SWEEP_TENANTS environment variable supplies them.
type SweepEvent struct {
	Tenants []string `json:"tenants"`
}

// HandleRequest is triggered by an EventBridge Schedule. The in-request lazy
// sweep already keeps availability honest; this pass just reclaims holds for
// tenants with no buyer activity.
func HandleRequest(ctx context.Context, event SweepEvent) error {
	tenants := event.Tenants
	if len(tenants) == 0 {
		tenants = defaultTenants
	}
	if len(tenants) == 0 {
		log.Println("No tenants configured, nothing to sweep.")
		return nil
	}

	for _, tenant := range tenants {
		tenant = strings.TrimSpace(tenant)
		if tenant == "" {
			continue
		}

		released, err := ldg.SweepExpired(ctx, tenant)
		if err != nil {
			log.Printf("ERROR: failed to sweep tenant %s: %v", tenant, err)
			// Continue to the next tenant, don't let one failure stop the whole batch.
			continue
		}
		if released > 0 {
			log.Printf("Released expired holds on %d items for tenant %s", released, tenant)
		}
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
