package config

import (
	"sync"
	"time"
)

var (
	redisOnce   sync.Once
	redisConfig *RedisConfig
)

// RedisConfig is shared by the asynq queue and the job status store.
type RedisConfig struct {
	Addr        string
	DB          int
	Password    string
	Concurrency int
	StatusTTL   time.Duration
}

func LoadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:        envString("REDIS_ADDR", "localhost:6379"),
		DB:          envInt("REDIS_DB", 0),
		Password:    envString("REDIS_PASSWORD", ""),
		Concurrency: envInt("WORKER_CONCURRENCY", 5),
		StatusTTL:   envDuration("JOB_STATUS_TTL", 24*time.Hour),
	}
}

func GetRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		loadDotEnv()
		redisConfig = LoadRedisConfig()
	})
	return redisConfig
}
