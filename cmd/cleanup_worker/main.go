package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tunehub/tunehub/config"
	"github.com/tunehub/tunehub/pkg/cleanup"
	"github.com/tunehub/tunehub/pkg/helpers"
)

// Consumes cleanup jobs and deletes the listed objects from the media
// bucket. Deletes are idempotent, so redelivered jobs are harmless.
func main() {
	cfg := config.Load()
	if cfg.RabbitMQURL == "" || cfg.RabbitMQCleanupQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.GCSBucket == "" {
		log.Fatal("GCS bucket not configured")
	}

	ctx := context.Background()
	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("gcs client: %v", err)
	}
	defer func() { _ = gcs.Close() }()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQCleanupQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQCleanupQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job cleanup.Job
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			failed := false
			for _, path := range job.Paths {
				c, cancel := context.WithTimeout(ctx, 10*time.Second)
				err := helpers.DeleteObject(c, gcs, cfg.GCSBucket, path)
				cancel()
				if err != nil {
					log.Printf("delete %s failed: %v", path, err)
					failed = true
					break
				}
			}
			if failed {
				_ = msg.Nack(false, true)
				continue
			}
			log.Printf("cleaned %d object(s) (%s)", len(job.Paths), job.Reason)
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("cleanup worker listening on queue=%s", cfg.RabbitMQCleanupQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
