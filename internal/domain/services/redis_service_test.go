package services

import (
	"testing"

	"github.com/go-redis/redis/v8"

	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

func TestNewRedisServiceReusesClient(t *testing.T) {
	cfg := &config.Config{RedisHost: "localhost", RedisPort: "6379"}
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	svc := NewRedisService(cfg, client)
	rs, ok := svc.(*RedisService)
	if !ok {
		t.Fatalf("服务类型 = %T, 期望 *RedisService", svc)
	}
	// 外部建好的连接必须被复用，不能再开第二条
	if rs.Client != client {
		t.Error("传入的Redis客户端没有被复用")
	}
}

func TestNewRedisServiceBuildsClientWhenMissing(t *testing.T) {
	cfg := &config.Config{RedisHost: "localhost", RedisPort: "6379"}

	svc := NewRedisService(cfg, nil)
	rs, ok := svc.(*RedisService)
	if !ok {
		t.Fatalf("服务类型 = %T, 期望 *RedisService", svc)
	}
	if rs.Client == nil {
		t.Error("没传客户端时应该按配置自建连接")
	}
}
