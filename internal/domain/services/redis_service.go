package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// 缓存相关的服务层错误
var (
	ErrCacheMiss        = errors.New("缓存未命中")
	ErrCacheUnavailable = errors.New("缓存服务不可用")
)

// InterfaceCacheService 定义缓存服务接口
type InterfaceCacheService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	StoreResetToken(token string, userID uint, ttl time.Duration) error
	ConsumeResetToken(token string) (uint, error)
	Available() bool
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service.
// 复用外部传入的客户端，只有在没传时才自己建连接。
func NewRedisService(cfg *config.Config, client *redis.Client) InterfaceCacheService {
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: "", // No password set
			DB:       cfg.RedisDB,
		})
	}

	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// Available 判断Redis连接是否可用
func (s *RedisService) Available() bool {
	if s.Client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(s.Ctx, 1*time.Second)
	defer cancel()
	return s.Client.Ping(ctx).Err() == nil
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	if s.Client == nil {
		return ErrCacheUnavailable
	}

	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	if s.Client == nil {
		return ErrCacheUnavailable
	}

	val, err := s.Client.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	if s.Client == nil {
		return ErrCacheUnavailable
	}
	return s.Client.Del(s.Ctx, key).Err()
}

// StoreResetToken 缓存密码重置令牌和账号ID的对应关系
func (s *RedisService) StoreResetToken(token string, userID uint, ttl time.Duration) error {
	if s.Client == nil {
		return ErrCacheUnavailable
	}
	key := "password_reset:" + token
	return s.Client.Set(s.Ctx, key, userID, ttl).Err()
}

// ConsumeResetToken 取出并删除密码重置令牌，令牌只能使用一次
func (s *RedisService) ConsumeResetToken(token string) (uint, error) {
	if s.Client == nil {
		return 0, ErrCacheUnavailable
	}

	key := "password_reset:" + token
	val, err := s.Client.Get(s.Ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, err
	}

	if err := s.Client.Del(s.Ctx, key).Err(); err != nil {
		return 0, err
	}
	return uint(val), nil
}
