// Package statestore хранит JSON-состояние клиента в хранилище ключ-значение
// с кешем чтения. Ошибки кеша логируются и не прерывают операцию.
package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/storage"
)

// Repository порт хранилища ключ-значение.
type Repository interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) (int, error)
	List(ctx context.Context, namespace, prefix string) ([][]byte, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Store JSON-хранилище с кешем.
type Store struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт Store. ttl задаёт время жизни записей в кеше.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Store {
	return &Store{repo: repo, cache: cache, ttl: ttl, log: log}
}

func cacheKey(namespace, key string) string {
	return namespace + ":" + key
}

// Load читает значение в out. Возвращает false, если значения нет.
func (s *Store) Load(ctx context.Context, namespace, key string, out any) (bool, error) {
	const op = "statestore.Load"
	ck := cacheKey(namespace, key)

	found, err := s.cache.Get(ctx, ck, out)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", ck), sl.Err(err))
	} else if found {
		return true, nil
	}

	raw, err := s.repo.Get(ctx, namespace, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%s: decode %s: %w", op, ck, err)
	}

	if err := s.cache.Set(ctx, ck, out, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", ck), sl.Err(err))
	}
	return true, nil
}

// Save сериализует value и сохраняет его, обновляя кеш.
func (s *Store) Save(ctx context.Context, namespace, key string, value any) error {
	const op = "statestore.Save"
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.Put(ctx, namespace, key, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ck := cacheKey(namespace, key)
	if err := s.cache.Set(ctx, ck, value, s.ttl); err != nil {
		s.log.Warn("failed to cache state", slog.String("key", ck), sl.Err(err))
		if err := s.cache.Invalidate(ctx, ck); err != nil {
			s.log.Warn("failed to invalidate stale cache", slog.String("key", ck), sl.Err(err))
		}
	}
	return nil
}

// Delete удаляет значение. Возвращает false, если значения не было.
func (s *Store) Delete(ctx context.Context, namespace, key string) (bool, error) {
	const op = "statestore.Delete"
	ck := cacheKey(namespace, key)
	if err := s.cache.Invalidate(ctx, ck); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", ck), sl.Err(err))
	}

	n, err := s.repo.Delete(ctx, namespace, key)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// List возвращает сырые JSON-значения пространства имён по префиксу ключа.
// Кеш не используется.
func (s *Store) List(ctx context.Context, namespace, prefix string) ([][]byte, error) {
	values, err := s.repo.List(ctx, namespace, prefix)
	if err != nil {
		return nil, fmt.Errorf("statestore.List: %w", err)
	}
	return values, nil
}
