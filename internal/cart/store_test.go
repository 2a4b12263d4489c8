package cart

import (
	"context"
	"errors"
	"testing"

	"skullcart/internal/model"
	"skullcart/internal/money"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Write(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func testProduct(id string, priceCents int64) model.Product {
	return model.Product{
		ID:        id,
		Name:      "Skull Burger",
		UnitPrice: money.Cents(priceCents),
		ImageRef:  "img/burger.png",
	}
}

func TestStore_Add_MergesByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), zerolog.Nop())

	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Add(ctx, testProduct("A", 500)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_Add_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), zerolog.Nop())

	require.NoError(t, store.Add(ctx, testProduct("B", 100)))
	require.NoError(t, store.Add(ctx, testProduct("A", 200)))
	require.NoError(t, store.Add(ctx, testProduct("C", 300)))
	require.NoError(t, store.Add(ctx, testProduct("A", 200)))

	items := store.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "B", items[0].ID)
	assert.Equal(t, "A", items[1].ID)
	assert.Equal(t, "C", items[2].ID)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestStore_Add_InvalidProduct(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), zerolog.Nop())

	err := store.Add(ctx, model.Product{Name: "no id"})
	assert.ErrorIs(t, err, model.ErrMissingProductID)

	err = store.Add(ctx, model.Product{ID: "A", UnitPrice: -1})
	assert.ErrorIs(t, err, model.ErrNegativePrice)

	assert.Empty(t, store.Items())
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), zerolog.Nop())

	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Add(ctx, testProduct("B", 700)))

	require.NoError(t, store.Remove(ctx, "A"))
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].ID)

	// Removing an unknown ID is a no-op.
	require.NoError(t, store.Remove(ctx, "ZZZ"))
	assert.Len(t, store.Items(), 1)
}

func TestStore_Remove_AbsentID_DoesNotPersistOrSignal(t *testing.T) {
	ctx := context.Background()
	storage := new(MockStorage)
	store := NewStore(storage, zerolog.Nop())

	signals := 0
	store.OnChange(func() { signals++ })

	require.NoError(t, store.Remove(ctx, "missing"))
	assert.Zero(t, signals)
	storage.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), zerolog.Nop())

	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Items())
	assert.Zero(t, store.ItemCount())
}

func TestStore_WriteThroughOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	storage := new(MockStorage)
	storage.On("Write", ctx, mock.AnythingOfType("[]uint8")).Return(nil)

	store := NewStore(storage, zerolog.Nop())

	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Remove(ctx, "A"))
	require.NoError(t, store.Clear(ctx))

	storage.AssertNumberOfCalls(t, "Write", 4)
}

func TestStore_PersistFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	storage := new(MockStorage)
	storage.On("Write", ctx, mock.AnythingOfType("[]uint8")).Return(errors.New("disk full"))

	store := NewStore(storage, zerolog.Nop())

	signals := 0
	store.OnChange(func() { signals++ })

	err := store.Add(ctx, testProduct("A", 500))
	require.Error(t, err)
	assert.Empty(t, store.Items())
	assert.Zero(t, signals)
}

func TestStore_Load_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	store := NewStore(storage, zerolog.Nop())
	require.NoError(t, store.Add(ctx, testProduct("A", 3000)))
	require.NoError(t, store.Add(ctx, testProduct("A", 3000)))
	require.NoError(t, store.Add(ctx, testProduct("B", 1999)))

	restored := NewStore(storage, zerolog.Nop())
	restored.Load(ctx)

	assert.Equal(t, store.Items(), restored.Items())
	assert.Equal(t, 3, restored.ItemCount())
}

func TestStore_Load_ToleratesBadState(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		data    []byte
		readErr error
	}{
		{
			name: "Nothing saved",
			data: nil,
		},
		{
			name: "Malformed JSON",
			data: []byte(`{not json`),
		},
		{
			name: "Wrong shape",
			data: []byte(`{"id":"A"}`),
		},
		{
			name: "Line item without ID",
			data: []byte(`[{"id":"","name":"x","price":1.00,"image":"","quantity":1}]`),
		},
		{
			name: "Line item with zero quantity",
			data: []byte(`[{"id":"A","name":"x","price":1.00,"image":"","quantity":0}]`),
		},
		{
			name:    "Storage read failure",
			readErr: errors.New("backend down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := new(MockStorage)
			if tt.readErr != nil {
				storage.On("Read", ctx).Return(nil, tt.readErr)
			} else {
				storage.On("Read", ctx).Return(tt.data, nil)
			}

			store := NewStore(storage, zerolog.Nop())
			store.Load(ctx)

			assert.Empty(t, store.Items())
			assert.Zero(t, store.ItemCount())
		})
	}
}

func TestStore_ChangeListenersFireAfterPersist(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), zerolog.Nop())

	var counts []int
	store.OnChange(func() {
		// The listener must observe the already-updated store.
		counts = append(counts, store.ItemCount())
	})

	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Add(ctx, testProduct("A", 500)))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, []int{1, 2, 0}, counts)
}
