package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmed8601/kahramana-site/pkg/cart"
	"github.com/ahmed8601/kahramana-site/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "kahramana_cart_v1:test"

type failingStorage struct {
	getErr, setErr, removeErr error
	removed                   int
	sets                      int
}

func (f *failingStorage) Get(context.Context, string) (string, error) {
	return "", f.getErr
}

func (f *failingStorage) Set(context.Context, string, string) error {
	f.sets++
	return f.setErr
}

func (f *failingStorage) Remove(context.Context, string) error {
	f.removed++
	return f.removeErr
}

func newAdapter(s Storage) *Adapter {
	return NewAdapter(s, testKey, catalog.Default(), nil)
}

func TestEncode(t *testing.T) {
	got := Encode([]cart.Entry{{ItemID: 3, Quantity: 2}, {ItemID: 1, Quantity: 1}})

	assert.Equal(t, `{"v":1,"cart":{"3":2,"1":1}}`, got)
	assert.Equal(t, `{"v":1,"cart":{}}`, Encode(nil))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []cart.Entry
		dropped int
		wantErr error
	}{
		{name: "valid", raw: `{"v":1,"cart":{"2":3,"1":1}}`, want: []cart.Entry{{ItemID: 2, Quantity: 3}, {ItemID: 1, Quantity: 1}}},
		{name: "empty cart", raw: `{"v":1,"cart":{}}`},
		{name: "string quantity", raw: `{"v":1,"cart":{"1":"2"}}`, want: []cart.Entry{{ItemID: 1, Quantity: 2}}},
		{name: "integral float", raw: `{"v":1,"cart":{"1":2.0}}`, want: []cart.Entry{{ItemID: 1, Quantity: 2}}},
		{name: "drops bad entries", raw: `{"v":1,"cart":{"x":1,"2":0,"3":-1,"4":1.5,"1":true,"4":2}}`, want: []cart.Entry{{ItemID: 4, Quantity: 2}}, dropped: 4},
		{name: "repeated key keeps last value", raw: `{"v":1,"cart":{"1":1,"2":4,"1":3}}`, want: []cart.Entry{{ItemID: 1, Quantity: 3}, {ItemID: 2, Quantity: 4}}},
		{name: "repeated key ending invalid", raw: `{"v":1,"cart":{"1":2,"1":0}}`, dropped: 1},
		{name: "quantity above bound", raw: `{"v":1,"cart":{"1":2147483648,"2":2147483647}}`, want: []cart.Entry{{ItemID: 2, Quantity: cart.MaxQuantity}}, dropped: 1},
		{name: "wrong version", raw: `{"v":2,"cart":{"1":1}}`, wantErr: errVersionMismatch},
		{name: "no version", raw: `{"cart":{"1":1}}`, wantErr: errVersionMismatch},
		{name: "not json", raw: `{{{`, wantErr: errMalformed},
		{name: "array", raw: `[1,2]`, wantErr: errMalformed},
		{name: "cart missing", raw: `{"v":1}`, wantErr: errMalformed},
		{name: "cart not object", raw: `{"v":1,"cart":[1]}`, wantErr: errMalformed},
		{name: "cart null", raw: `{"v":1,"cart":null}`, wantErr: errMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.Entries)
			assert.Equal(t, tt.dropped, snap.Dropped)
		})
	}
}

func TestPeekVersion(t *testing.T) {
	v, err := PeekVersion(`{"v":3,"cart":{}}`)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = PeekVersion(`{"cart":{}}`)
	assert.ErrorIs(t, err, errMalformed)
}

func TestLoad_Absent(t *testing.T) {
	a := newAdapter(NewMemoryStorage())

	c := a.Load(context.Background())

	assert.Equal(t, 0, c.Len())
	assert.True(t, a.Ready())
}

func TestLoad_FiltersUnknownItems(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Set(ctx, testKey, `{"v":1,"cart":{"4":1,"99":5,"2":0,"1":2}}`))

	c := newAdapter(s).Load(ctx)

	assert.Equal(t, []cart.Entry{{ItemID: 4, Quantity: 1}, {ItemID: 1, Quantity: 2}}, c.Entries())
	_, err := s.Get(ctx, testKey)
	assert.NoError(t, err, "valid snapshot must stay stored")
}

func TestLoad_VersionMismatchErases(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Set(ctx, testKey, `{"v":0,"cart":{"1":2}}`))

	c := newAdapter(s).Load(ctx)

	assert.Equal(t, 0, c.Len())
	_, err := s.Get(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_MalformedErases(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Set(ctx, testKey, `not json`))

	c := newAdapter(s).Load(ctx)

	assert.Equal(t, 0, c.Len())
	_, err := s.Get(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_StorageFailureIsSwallowed(t *testing.T) {
	s := &failingStorage{getErr: errors.New("unavailable"), removeErr: errors.New("unavailable")}
	a := newAdapter(s)

	c := a.Load(context.Background())

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, s.removed)
	assert.True(t, a.Ready())
}

func TestSave_BeforeLoadIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Set(ctx, testKey, `{"v":1,"cart":{"1":2}}`))
	a := newAdapter(s)

	a.Save(ctx, &cart.Cart{})

	raw, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1,"cart":{"1":2}}`, raw)
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	a := newAdapter(s)
	c := a.Load(ctx)
	c.Add(3)
	c.ChangeQuantity(1, 4)

	a.Save(ctx, c)

	restored := newAdapter(s).Load(ctx)
	assert.Equal(t, []cart.Entry{{ItemID: 3, Quantity: 1}, {ItemID: 1, Quantity: 4}}, restored.Entries())
}

func TestSave_FailureIsSwallowed(t *testing.T) {
	s := &failingStorage{getErr: ErrNotFound, setErr: errors.New("quota exceeded")}
	a := newAdapter(s)
	c := a.Load(context.Background())
	c.Add(1)

	assert.NotPanics(t, func() { a.Save(context.Background(), c) })
	assert.Equal(t, 1, s.sets)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "kahramana_cart_v1:abc", SessionKey("abc"))
}
