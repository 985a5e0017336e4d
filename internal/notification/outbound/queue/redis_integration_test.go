//go:build integration

package queue

import (
	"net"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisLists(t *testing.T) {
	// Arrange
	ctx := t.Context()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, nat.Port("6379/tcp"))
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	lists := NewRedisLists(client)

	// Act
	errPush := lists.Push(ctx, "notification:queue:email", 1, 2, 3)
	first, errPop := lists.Pop(ctx, "notification:queue:email", 2)
	n, errLen := lists.Len(ctx, "notification:queue:email")
	rest, _ := lists.Pop(ctx, "notification:queue:email", 5)
	empty, errEmpty := lists.Pop(ctx, "notification:queue:email", 5)

	// Assert
	if errPush != nil || errPop != nil || errLen != nil || errEmpty != nil {
		t.Fatalf("errors: %v %v %v %v", errPush, errPop, errLen, errEmpty)
	}
	if len(first) != 2 || first[0] != 1 || first[1] != 2 {
		t.Fatalf("first = %v", first)
	}
	if n != 1 || len(rest) != 1 || rest[0] != 3 || len(empty) != 0 {
		t.Fatalf("n=%d rest=%v empty=%v", n, rest, empty)
	}
}
