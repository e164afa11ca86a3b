package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// SignalService fans entity changes out over redis pub/sub.
type SignalService struct {
	rdb     *redis.Client
	channel string
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb:     redisClient,
		channel: domain.ChangeChannel,
	}
}

func (s *SignalService) Publish(ctx context.Context, change domain.Change) error {

	jsonstr, err := json.Marshal(change)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		return err

	}

	return nil
}

// Realtime forwards every change published on the channel to output until
// ctx is done. Changes whose entity is not in filter are dropped; an empty
// filter passes everything. New filters arrive on input.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- domain.Change) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	filter := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return
		case entities, ok := <-input:
			if !ok {
				return
			}
			filter = map[string]bool{}
			for _, e := range entities {
				filter[e] = true
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var change domain.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode change",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if len(filter) > 0 && !filter[change.Entity] {
				continue
			}
			select {
			case output <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}
