package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
)

// AuditService records authentication events. Each event is logged and
// appended to a capped Redis list so operators can inspect recent auth
// activity. Recording failures never affect the originating request.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *redis.Client
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, client *redis.Client, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      client,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to auth events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.record)
	a.dispatcher.Subscribe(events.EventAccountLoggedIn, a.record)
	a.dispatcher.Subscribe(events.EventPasswordChanged, a.record)
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	a.logger.Info("auth event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("account_id", event.AccountID))

	if a.redis == nil || a.cfg.RedisKey == "" {
		return nil
	}

	entry, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := a.redis.Pipeline()
	pipe.LPush(ctx, a.cfg.RedisKey, entry)
	if a.cfg.MaxEntries > 0 {
		pipe.LTrim(ctx, a.cfg.RedisKey, 0, int64(a.cfg.MaxEntries-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		a.logger.Warn("audit trail write failed", zap.Error(err))
	}
	return nil
}
