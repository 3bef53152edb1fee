package persist_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordpad/internal/catalog"
	"github.com/roach88/ordpad/internal/order"
	"github.com/roach88/ordpad/internal/persist"
	"github.com/roach88/ordpad/internal/testutil"
)

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func randomProduct(id int64) catalog.Product {
	return catalog.Product{
		ID:    id,
		Name:  gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
	}
}

func TestRoundTrip_Catalog(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()

	payload := []catalog.Product{randomProduct(1), randomProduct(2), randomProduct(3)}
	require.NoError(t, persist.Save(ctx, kv, "catalog", payload))

	got := persist.Load[catalog.Product](ctx, kv, "catalog", discardLogger())
	assert.Empty(t, cmp.Diff(payload, got, decimalComparer))
}

func TestRoundTrip_Order(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()

	payload := []order.Line{
		{Product: randomProduct(1), Quantity: gofakeit.IntRange(1, 9)},
		{Product: randomProduct(2), Quantity: gofakeit.IntRange(1, 9)},
	}
	require.NoError(t, persist.Save(ctx, kv, "order", payload))

	got := persist.Load[order.Line](ctx, kv, "order", discardLogger())
	assert.Empty(t, cmp.Diff(payload, got, decimalComparer))
}

func TestRoundTrip_Empty(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()

	require.NoError(t, persist.Save[catalog.Product](ctx, kv, "catalog", nil))

	raw, ok := kv.Raw("catalog")
	require.True(t, ok)
	assert.Equal(t, "[]", raw)

	got := persist.Load[catalog.Product](ctx, kv, "catalog", discardLogger())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSave_Format(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()

	products := []catalog.Product{{ID: 1, Name: "Pastel", Price: decimal.RequireFromString("8.5")}}
	require.NoError(t, persist.Save(ctx, kv, "catalog", products))

	lines := []order.Line{{Product: products[0], Quantity: 2}}
	require.NoError(t, persist.Save(ctx, kv, "order", lines))

	rawCatalog, _ := kv.Raw("catalog")
	assert.JSONEq(t, `[{"id":1,"name":"Pastel","price":"8.5"}]`, rawCatalog)

	rawOrder, _ := kv.Raw("order")
	assert.JSONEq(t, `[{"id":1,"name":"Pastel","price":"8.5","quantity":2}]`, rawOrder)
}

func TestSave_ReplacesPriorValue(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()

	require.NoError(t, persist.Save(ctx, kv, "catalog", []catalog.Product{randomProduct(1), randomProduct(2)}))
	second := []catalog.Product{randomProduct(3)}
	require.NoError(t, persist.Save(ctx, kv, "catalog", second))

	got := persist.Load[catalog.Product](ctx, kv, "catalog", discardLogger())
	assert.Empty(t, cmp.Diff(second, got, decimalComparer))
}

func TestSave_PutError(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemKV()
	kv.FailPuts(errors.New("quota exceeded"))

	err := persist.Save(ctx, kv, "catalog", []catalog.Product{randomProduct(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put catalog")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLoad_FallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		setup func(kv *testutil.MemKV)
	}{
		{
			name:  "absent key",
			setup: func(kv *testutil.MemKV) {},
		},
		{
			name:  "malformed json",
			setup: func(kv *testutil.MemKV) { kv.Seed("catalog", "{not json") },
		},
		{
			name:  "wrong shape",
			setup: func(kv *testutil.MemKV) { kv.Seed("catalog", `{"id":1}`) },
		},
		{
			name:  "bad price",
			setup: func(kv *testutil.MemKV) { kv.Seed("catalog", `[{"id":1,"name":"x","price":"abc"}]`) },
		},
		{
			name:  "json null",
			setup: func(kv *testutil.MemKV) { kv.Seed("catalog", "null") },
		},
		{
			name:  "backend read error",
			setup: func(kv *testutil.MemKV) { kv.FailGets(errors.New("io error")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := testutil.NewMemKV()
			tt.setup(kv)

			got := persist.Load[catalog.Product](context.Background(), kv, "catalog", discardLogger())
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestLoad_NilLoggerUsesDefault(t *testing.T) {
	kv := testutil.NewMemKV()
	kv.Seed("order", "garbage")

	assert.NotPanics(t, func() {
		got := persist.Load[order.Line](context.Background(), kv, "order", nil)
		assert.Empty(t, got)
	})
}

func TestDefaultKeys(t *testing.T) {
	keys := persist.DefaultKeys()
	assert.Equal(t, "catalog", keys.Catalog)
	assert.Equal(t, "order", keys.Order)
	assert.NotEqual(t, keys.Catalog, keys.Order)
}
