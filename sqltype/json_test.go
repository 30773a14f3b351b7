package sqltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Theme string `json:"theme"`
	Size  int    `json:"size"`
}

func TestJson_Scan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  any
	}{
		{name: "bytes", src: []byte(`{"theme":"dark","size":2}`)},
		{name: "string", src: `{"theme":"dark","size":2}`},
		{name: "decoded map", src: map[string]any{"theme": "dark", "size": float64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var j Json[settings]
			require.NoError(t, j.Scan(tt.src))
			assert.Equal(t, settings{Theme: "dark", Size: 2}, j.Data)
		})
	}
}

func TestJson_ScanErrors(t *testing.T) {
	t.Parallel()

	var j Json[settings]
	assert.ErrorIs(t, j.Scan(nil), ErrJSON)
	assert.ErrorIs(t, j.Scan([]byte("{")), ErrJSON)
	assert.ErrorIs(t, j.Scan(42), ErrJSON)
}

func TestJson_Value(t *testing.T) {
	t.Parallel()

	v, err := Json[[]int]{Data: []int{1, 2}}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[1,2]"), v)

	_, err = Json[func()]{Data: func() {}}.Value()
	assert.ErrorIs(t, err, ErrJSON)
}

func TestNullable(t *testing.T) {
	t.Parallel()

	var n Nullable[settings]
	require.NoError(t, n.Scan([]byte(`{"theme":"light"}`)))
	assert.True(t, n.Valid)
	assert.Equal(t, "light", n.Data.Theme)

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid)
	assert.Equal(t, settings{}, n.Data)

	v, err := n.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = NewNullable(settings{Size: 1}).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"","size":1}`, string(v.([]byte)))
}

func TestNullable_JSONNull(t *testing.T) {
	t.Parallel()

	var n Nullable[*settings]
	require.NoError(t, n.Scan([]byte("null")))
	assert.True(t, n.Valid)
	assert.Nil(t, n.Data)
}
