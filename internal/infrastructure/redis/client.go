package redis

import (
	"context"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"

	"supplierhub/internal/config"
)

func NewClient(ctx context.Context, cfg config.RedisConfig) (*rd.Client, error) {
	client := rd.NewClient(&rd.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
