package cart

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prod(id string, price int64) Product {
	return Product{
		ID:     id,
		Name:   "Product " + id,
		Price:  decimal.NewFromInt(price),
		Images: []string{id + ".jpg", id + "-2.jpg"},
	}
}

func newStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	return NewStore(context.Background(), storage), storage
}

func persisted(t *testing.T, storage Storage) []Item {
	t.Helper()
	data, err := storage.Load(context.Background(), DefaultKey)
	require.NoError(t, err)
	items, err := Decode(data)
	require.NoError(t, err)
	return items
}

func TestStore_Scenario(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, prod("A", 100), 2))
	require.NoError(t, s.AddItem(ctx, prod("B", 50), 1))

	assert.True(t, decimal.NewFromInt(250).Equal(s.Total()))
	assert.Equal(t, 3, s.ItemCount())
}

func TestStore_Empty(t *testing.T) {
	s, _ := newStore(t)

	assert.True(t, s.Total().IsZero())
	assert.Equal(t, 0, s.ItemCount())
	assert.True(t, s.IsEmpty())
}

func TestStore_AddSameProductMerges(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, prod("A", 10), 2))
	require.NoError(t, s.AddItem(ctx, prod("A", 10), 3))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "A.jpg", items[0].ImageURL)
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	s, storage := newStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.AddItem(ctx, prod("A", 10), 0), ErrInvalidQuantity)
	require.ErrorIs(t, s.AddItem(ctx, prod("A", 10), -2), ErrInvalidQuantity)
	require.ErrorIs(t, s.AddItem(ctx, prod("A", 0), 1), ErrInvalidPrice)

	assert.True(t, s.IsEmpty())
	_, err := storage.Load(ctx, DefaultKey)
	require.ErrorIs(t, err, ErrNotExist)
}

func TestStore_UpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		viaUpdate, _ := newStore(t)
		viaRemove, _ := newStore(t)
		ctx := context.Background()
		for _, s := range []*Store{viaUpdate, viaRemove} {
			require.NoError(t, s.AddItem(ctx, prod("A", 10), 2))
			require.NoError(t, s.AddItem(ctx, prod("B", 20), 1))
		}

		viaUpdate.UpdateQuantity(ctx, "A", qty)
		viaRemove.RemoveItem(ctx, "A")

		assert.Equal(t, viaRemove.Items(), viaUpdate.Items(), "qty=%d", qty)
	}
}

func TestStore_UpdateQuantity(t *testing.T) {
	s, storage := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, prod("A", 10), 1))

	s.UpdateQuantity(ctx, "A", 4)
	assert.Equal(t, 4, s.ItemCount())
	assert.Equal(t, 4, persisted(t, storage)[0].Quantity)

	s.UpdateQuantity(ctx, "missing", 7)
	assert.Equal(t, 4, s.ItemCount())
}

func TestStore_RemoveMissingIsNoop(t *testing.T) {
	s, storage := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, prod("A", 10), 1))

	calls := 0
	s.OnChange(func([]Item) { calls++ })
	before, err := storage.Load(ctx, DefaultKey)
	require.NoError(t, err)

	s.RemoveItem(ctx, "missing")

	after, err := storage.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 0, calls)
	assert.Len(t, s.Items(), 1)
}

func TestStore_Invariants(t *testing.T) {
	s, storage := newStore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))
	ids := []string{"A", "B", "C", "D"}

	for range 500 {
		id := ids[rng.IntN(len(ids))]
		switch rng.IntN(3) {
		case 0:
			_ = s.AddItem(ctx, prod(id, int64(rng.IntN(500)+1)), rng.IntN(4)+1)
		case 1:
			s.RemoveItem(ctx, id)
		case 2:
			s.UpdateQuantity(ctx, id, rng.IntN(6)-2)
		}

		items := s.Items()
		total := decimal.Zero
		count := 0
		seen := map[string]bool{}
		for _, it := range items {
			require.GreaterOrEqual(t, it.Quantity, 1)
			require.False(t, seen[it.ProductID], "duplicate line %s", it.ProductID)
			seen[it.ProductID] = true
			total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			count += it.Quantity
		}
		require.True(t, total.Equal(s.Total()))
		require.Equal(t, count, s.ItemCount())
		require.Equal(t, len(items), len(persisted(t, storage)))
	}
}

func TestStore_ClearPersistsEmptyList(t *testing.T) {
	s, storage := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, prod("A", 10), 1))

	s.Clear(ctx)

	assert.True(t, s.IsEmpty())
	data, err := storage.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStore_ReloadRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	s := NewStore(ctx, storage)
	require.NoError(t, s.AddItem(ctx, Product{ID: "A", Name: "Tote", Price: decimal.RequireFromString("349.99")}, 2))
	require.NoError(t, s.AddItem(ctx, prod("B", 50), 1))

	reloaded := NewStore(ctx, storage)

	assert.Equal(t, len(s.Items()), len(reloaded.Items()))
	for i, it := range s.Items() {
		got := reloaded.Items()[i]
		assert.Equal(t, it.ProductID, got.ProductID)
		assert.Equal(t, it.Quantity, got.Quantity)
		assert.True(t, it.UnitPrice.Equal(got.UnitPrice))
		assert.Equal(t, it.ImageURL, got.ImageURL)
	}
	assert.True(t, s.Total().Equal(reloaded.Total()))
}

func TestStore_CorruptDataLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{
		`{not json`, `{"id":"A"}`, `[{"id":"A","price":"abc","quantity":1}]`,
		`[{"id":"A","name":"a","price":10,"quantity":1}]garbage`,
	} {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, DefaultKey, []byte(raw)))

		s := NewStore(ctx, storage)

		assert.True(t, s.IsEmpty(), raw)
		require.NoError(t, s.AddItem(ctx, prod("A", 10), 1), raw)
	}
}

func TestDecode_DropsInvalidLinesAndMerges(t *testing.T) {
	items, err := Decode([]byte(`[
		{"id":"A","name":"a","price":10,"image":"a.jpg","quantity":1},
		{"id":"B","name":"b","price":5,"image":null,"quantity":0},
		{"id":"A","name":"a","price":10,"image":"a.jpg","quantity":2},
		{"id":"C","name":"c","price":0,"image":"","quantity":1}
	]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestDecode_TrailingData(t *testing.T) {
	for _, raw := range []string{
		`[{"id":"A","name":"a","price":10,"quantity":1}]garbage`,
		`[] []`,
		`[{"id":"A","name":"a","price":10,"quantity":1}]}`,
	} {
		_, err := Decode([]byte(raw))
		assert.Error(t, err, raw)
	}

	items, err := Decode([]byte("  [{\"id\":\"A\",\"name\":\"a\",\"price\":10,\"quantity\":1}]\n"))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

type failingStorage struct{}

func (failingStorage) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("permission denied")
}

func (failingStorage) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestStore_StorageFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, failingStorage{})

	require.NoError(t, s.AddItem(ctx, prod("A", 10), 2))
	assert.Equal(t, 2, s.ItemCount())
}

func TestStore_OnChange(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var last []Item
	s.OnChange(func(items []Item) { last = items })

	require.NoError(t, s.AddItem(ctx, prod("A", 10), 1))
	require.Len(t, last, 1)
	s.Clear(ctx)
	assert.Empty(t, last)
}

func TestFileStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "carts")
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = fs.Load(ctx, DefaultKey)
	require.ErrorIs(t, err, ErrNotExist)

	s := NewStore(ctx, fs)
	require.NoError(t, s.AddItem(ctx, prod("A", 100), 2))

	raw, err := os.ReadFile(filepath.Join(dir, DefaultKey+".json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"A","name":"Product A","price":100,"image":"A.jpg","quantity":2}]`, string(raw))

	reloaded := NewStore(ctx, fs)
	assert.Equal(t, 2, reloaded.ItemCount())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
