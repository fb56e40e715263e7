package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomdesk/internal/config"
	"roomdesk/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	client := redis.NewClient(options)

	return client
}

func NewRedisCacheRepository(client *redis.Client, ttl time.Duration) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCacheRepository) GetHotelRooms(ctx context.Context, hotelID int64) ([]*models.RoomWithOccupancy, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("hotel_rooms:%d", hotelID)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel rooms from redis: %w", err)
	}

	var rooms []*models.RoomWithOccupancy
	if err := json.Unmarshal([]byte(val), &rooms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hotel rooms: %w", err)
	}

	return rooms, nil
}

func (r *RedisCacheRepository) SetHotelRooms(ctx context.Context, hotelID int64, rooms []*models.RoomWithOccupancy) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("hotel_rooms:%d", hotelID)
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("failed to marshal hotel rooms: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set hotel rooms in redis: %w", err)
	}

	return nil
}

func (r *RedisCacheRepository) InvalidateHotelRooms(ctx context.Context, hotelID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("hotel_rooms:%d", hotelID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete hotel rooms from redis: %w", err)
	}
	return nil
}

func (r *RedisCacheRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("rate_limit:%d", userID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
