package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestFetchJSON_CacheaYReutiliza(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Total string `json:"total"`
	}

	llamadas := 0
	loader := func(context.Context) (interface{}, error) {
		llamadas++
		return payload{Total: "150.00"}, nil
	}

	key, err := c.BuildKey(ctx, DashboardKey("v1", "loc1", "2025-08-01", "2025-08-31")...)
	require.NoError(t, err)

	var primera payload
	require.NoError(t, c.FetchJSON(ctx, key, &primera, loader))
	assert.Equal(t, "150.00", primera.Total)
	assert.Equal(t, 1, llamadas)

	var segunda payload
	require.NoError(t, c.FetchJSON(ctx, key, &segunda, loader))
	assert.Equal(t, "150.00", segunda.Total)
	assert.Equal(t, 1, llamadas, "la segunda lectura debe salir del caché")
}

func TestBump_InvalidaLasClavesAnteriores(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	llamadas := 0
	loader := func(context.Context) (interface{}, error) {
		llamadas++
		return map[string]int{"ventas": llamadas}, nil
	}

	key1, err := c.BuildKey(ctx, "dashboard", "v1")
	require.NoError(t, err)
	var out map[string]int
	require.NoError(t, c.FetchJSON(ctx, key1, &out, loader))
	require.Equal(t, 1, llamadas)

	require.NoError(t, c.Bump(ctx))

	key2, err := c.BuildKey(ctx, "dashboard", "v1")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2, "tras el bump la clave debe cambiar de versión")

	require.NoError(t, c.FetchJSON(ctx, key2, &out, loader))
	assert.Equal(t, 2, llamadas, "la clave nueva no existe todavía y debe recargar")
}

func TestFetchJSON_SinRedisDegradaAlLoader(t *testing.T) {
	var c *Cache // nil: passthrough

	llamadas := 0
	loader := func(context.Context) (interface{}, error) {
		llamadas++
		return "directo", nil
	}

	var out string
	require.NoError(t, c.FetchJSON(context.Background(), "cualquiera", &out, loader))
	assert.Equal(t, "directo", out)
	assert.Equal(t, 1, llamadas)
}

func TestDashboardKey_SucursalVaciaUsaAll(t *testing.T) {
	parts := DashboardKey("v1", "", "2025-08-01", "2025-08-31")
	assert.Equal(t, []string{"dashboard", "v1", "all", "2025-08-01", "2025-08-31"}, parts)
}
