// Package kv wraps a domain.KVStore with JSON helpers that never fail the
// caller. Absent keys, corrupt payloads and backend errors all degrade to
// "nothing stored" on read and "not saved" on write.
package kv

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"growcore/pkg/domain"
)

// Adapter serializes values to and from a key/value backend.
type Adapter struct {
	store  domain.KVStore
	logger *zap.Logger
}

// New wraps store. A nil logger is replaced with a no-op logger.
func New(store domain.KVStore, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, logger: logger}
}

// Store exposes the wrapped backend.
func (a *Adapter) Store() domain.KVStore { return a.store }

// LoadJSON decodes the payload under key into dst and reports whether dst was
// populated. dst is left untouched when false is returned.
func (a *Adapter) LoadJSON(ctx context.Context, key string, dst any) bool {
	payload, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("kv load failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok || len(payload) == 0 {
		return false
	}
	if err := decodeInto(payload, dst); err != nil {
		a.logger.Warn("kv payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SaveJSON encodes v and writes it under key. Failures are logged and
// reported as false.
func (a *Adapter) SaveJSON(ctx context.Context, key string, v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("kv encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := a.store.Set(ctx, key, payload); err != nil {
		a.logger.Warn("kv save failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
