package queue

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// RedisLists keeps each list as a Redis list under "coursebell:<key>".
type RedisLists struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLists(client redis.UniversalClient) *RedisLists {
	return &RedisLists{client: client, prefix: "coursebell:"}
}

func (r *RedisLists) Push(ctx context.Context, key string, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	values := lo.Map(ids, func(id int64, _ int) any { return strconv.FormatInt(id, 10) })
	return r.client.RPush(ctx, r.prefix+key, values...).Err()
}

func (r *RedisLists) Pop(ctx context.Context, key string, n int) ([]int64, error) {
	raw, err := r.client.LPopCount(ctx, r.prefix+key, n).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := cast.ToInt64E(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *RedisLists) Len(ctx context.Context, key string) (int64, error) {
	return r.client.LLen(ctx, r.prefix+key).Result()
}
