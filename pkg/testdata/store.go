package testdata

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/store"
)

// Now is the fixed clock used by package tests
var Now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// Clock returns Now
func Clock() time.Time { return Now }

// OpenStore opens a migrated in-memory database private to the test and
// returns a store on the fixed clock.
func OpenStore(t testing.TB) (*store.Store, *database.Client) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	client, err := database.NewClient(context.Background(), "file:"+name+"?mode=memory&cache=shared", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return store.New(client).WithClock(Clock), client
}

// SeededStore is OpenStore plus the demonstration records
func SeededStore(t testing.TB) (*store.Store, *database.Client) {
	t.Helper()
	st, client := OpenStore(t)
	_, err := client.Seed(context.Background(), Now)
	require.NoError(t, err)
	return st, client
}

// DaysAgo formats Now minus d days
func DaysAgo(d int) string {
	return Now.AddDate(0, 0, -d).Format(time.RFC3339)
}
