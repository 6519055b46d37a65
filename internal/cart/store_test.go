package cart

import (
	"context"
	"testing"
	"time"

	"tenera-store/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, time.Hour, zerolog.Nop()), mr
}

func testItems() []model.CartItem {
	return []model.CartItem{
		{ID: "moringa-caps", SKU: "moringa-caps", Name: "Moringa Capsules", Price: 15000, Quantity: 2},
		{ID: "detox-tea", SKU: "detox-tea", Name: "Detox Tea", Price: 8000, Quantity: 1},
	}
}

func TestStore_SaveFansOutToAllKeys(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "s1", testItems())

	for _, key := range saveKeys {
		raw, err := mr.Get("sess:s1:" + key)
		require.NoError(t, err, "key %s should be written", key)
		assert.Contains(t, raw, "moringa-caps")
	}
}

func TestStore_MarkRestoredClaimsOnce(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	assert.True(t, store.MarkRestored(ctx, "s1"))
	assert.False(t, store.MarkRestored(ctx, "s1"))

	// Other sessions are unaffected.
	assert.True(t, store.MarkRestored(ctx, "s2"))

	// The claim expires with the session keyspace.
	mr.FastForward(2 * time.Hour)
	assert.True(t, store.MarkRestored(ctx, "s1"))
}

func TestStore_LoadPriorityOrder(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	// Lower-priority keys carry a different cart; the highest present
	// key must win.
	mr.Set("sess:s1:cart", `[{"id":"low","sku":"low","name":"Low","price":1,"quantity":1}]`)
	mr.Set("sess:s1:teneraCart", `[{"id":"high","sku":"high","name":"High","price":2,"quantity":1}]`)

	items, source := store.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, "high", items[0].ID)
	assert.Equal(t, "teneraCart", source)
}

func TestStore_LoadSkipsMalformedAndEmpty(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set("sess:s1:TENERA_CART_UPDATE", `{not json`)
	mr.Set("sess:s1:teneraCart", `[]`)
	mr.Set("sess:s1:cart", `[{"id":"good","sku":"good","name":"Good","price":5,"quantity":1}]`)

	items, source := store.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, "good", items[0].ID)
	assert.Equal(t, "cart", source)
}

func TestStore_LoadEmptySession(t *testing.T) {
	store, _ := newTestStore(t)

	items, source := store.Load(context.Background(), "nobody")
	assert.Empty(t, items)
	assert.Empty(t, source)
}

func TestStore_CustomerInfoRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	info := model.CustomerInfo{Name: "Ada", Email: "ada@example.com", Phone: "+2348000000000"}
	require.NoError(t, store.SetCustomerInfo(ctx, "s1", info))

	got, err := store.CustomerInfo(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info, *got)

	// The email is mirrored under its own key for campaign lookups.
	email, err := mr.Get("sess:s1:customerEmail")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
}

func TestStore_ExternalModeFlag(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.False(t, store.ExternalMode(ctx, "s1"))

	store.SetExternalMode(ctx, "s1", true)
	assert.True(t, store.ExternalMode(ctx, "s1"))

	store.SetExternalMode(ctx, "s1", false)
	assert.False(t, store.ExternalMode(ctx, "s1"))
}

func TestStore_LastPaymentReference(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, store.LastPaymentReference(ctx, "s1"))

	store.SetLastPaymentReference(ctx, "s1", "TENERA_000012345")
	assert.Equal(t, "TENERA_000012345", store.LastPaymentReference(ctx, "s1"))
}

func TestIsExternalSource(t *testing.T) {
	assert.True(t, IsExternalSource("teneraCart"))
	assert.True(t, IsExternalSource("TENERA_CART_UPDATE"))
	assert.True(t, IsExternalSource("TeneraShoppingCart"))
	assert.True(t, IsExternalSource("systemeCart"))
	assert.False(t, IsExternalSource("cart"))
	assert.False(t, IsExternalSource("cartItems"))
	assert.False(t, IsExternalSource("pendingOrderData"))
	assert.False(t, IsExternalSource(""))
}
