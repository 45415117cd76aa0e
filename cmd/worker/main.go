package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeremyjsx/postboard/internal/config"
	"github.com/jeremyjsx/postboard/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

const dialTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	config.LoadEnv()
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		return errors.New("RABBITMQ_URL is required")
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	conn, err := events.Dial(dialCtx, url)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	queue, err := events.DeclareQueue(ch)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue, "postboard-worker", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logger.Info("post published worker started", "queue", queue)

	seen := newSeenPosts(1024)
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutting down")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			handlePostPublished(logger, seen, d)
		}
	}
}

func handlePostPublished(logger *slog.Logger, seen *seenPosts, d amqp.Delivery) {
	var e events.PostPublished
	if err := json.Unmarshal(d.Body, &e); err != nil {
		logger.Error("invalid event body", "error", err)
		_ = d.Nack(false, false)
		return
	}
	if e.Type != events.TypePostPublished {
		logger.Debug("ignoring event type", "type", e.Type)
		_ = d.Ack(false)
		return
	}

	if seen.add(e.Payload.PostID) {
		logger.Info("post published",
			"event_id", e.ID,
			"post_id", e.Payload.PostID,
			"title", e.Payload.Title,
		)
	} else {
		logger.Debug("post already announced", "post_id", e.Payload.PostID)
	}

	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack", "error", err)
	}
}

// seenPosts remembers the most recent post ids so repeat publishes of the
// same post are only announced once per worker lifetime.
type seenPosts struct {
	max   int
	order []int64
	ids   map[int64]struct{}
}

func newSeenPosts(max int) *seenPosts {
	return &seenPosts{max: max, ids: make(map[int64]struct{}, max)}
}

func (s *seenPosts) add(id int64) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	if len(s.order) == s.max {
		delete(s.ids, s.order[0])
		s.order = s.order[1:]
	}
	s.order = append(s.order, id)
	s.ids[id] = struct{}{}
	return true
}
