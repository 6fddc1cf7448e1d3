package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/WeAreDevs-ops/Discord-botrb/pkg/notify"
)

var webhookURL string
var httpClient = &http.Client{Timeout: 10 * time.Second}

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	webhookURL = os.Getenv("NOTIFY_WEBHOOK_URL")
	if webhookURL == "" {
		log.Fatal("NOTIFY_WEBHOOK_URL environment variable not set")
	}
}

// HandleRequest forwards queued storefront events to the webhook the
// Discord-facing relay listens on. Returning an error makes SQS redeliver
// the message.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var event notify.Event
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			log.Printf("ERROR: failed to unmarshal event from SQS message %s: %v", message.MessageId, err)
			return err
		}

		if err := forward(ctx, &event, []byte(message.Body)); err != nil {
			log.Printf("ERROR: failed to forward %s event for tenant %s: %v", event.Type, event.Tenant, err)
			return err
		}

		log.Printf("Forwarded %s event for tenant %s", event.Type, event.Tenant)
	}

	return nil
}

func forward(ctx context.Context, event *notify.Event, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
