package counter

import (
	"context"

	"github.com/subsyncapp/subsync/internal/pkg/cache"
)

const (
	webhookReceivedKey  = "webhooks:counters:received"
	webhookDuplicateKey = "webhooks:counters:duplicate"
	webhookFailedKey    = "webhooks:counters:failed"
)

// AddWebhookReceived increments the per-event-type received counter in Redis.
// Counters are operational telemetry only; failures are ignored by callers.
func AddWebhookReceived(eventType string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookReceivedKey, eventType, 1).Err()
}

// AddWebhookDuplicate increments the per-event-type duplicate counter.
func AddWebhookDuplicate(eventType string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookDuplicateKey, eventType, 1).Err()
}

// AddWebhookFailed increments the per-event-type processing-failure counter.
func AddWebhookFailed(eventType string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookFailedKey, eventType, 1).Err()
}

// Snapshot returns the current counter hashes for ops inspection.
func Snapshot() (received, duplicate, failed map[string]string, err error) {
	ctx := context.Background()
	rdb := cache.GetClient()

	if received, err = rdb.HGetAll(ctx, webhookReceivedKey).Result(); err != nil {
		return nil, nil, nil, err
	}
	if duplicate, err = rdb.HGetAll(ctx, webhookDuplicateKey).Result(); err != nil {
		return nil, nil, nil, err
	}
	if failed, err = rdb.HGetAll(ctx, webhookFailedKey).Result(); err != nil {
		return nil, nil, nil, err
	}
	return received, duplicate, failed, nil
}
