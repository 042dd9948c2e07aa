package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	RedisCtx    = context.Background()
	RedisURI    string
)

// InitRedis uri 留空表示不啟用 Redis（延後重試會改用 in-process 排程）
func InitRedis(uri string) {
	if uri == "" {
		log.Println("⚠️ REDIS_URI 未設定，延後重試將使用 in-process 排程")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     uri, // 例如 localhost:6379
		Password: "",
		DB:       0,
	})
	if _, err := RedisClient.Ping(RedisCtx).Result(); err != nil {
		log.Println("❌ Failed to connect Redis:", err)
		RedisClient = nil
		return
	}
	RedisURI = uri
	log.Println("✅ Redis connected successfully")
}
