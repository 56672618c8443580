package cache

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(afero.NewMemMapFs(), ".finder/cache", nil)
	require.NoError(t, err)

	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("structure", []byte(`{"root":[]}`)))

	data, err := s.Get("structure")
	require.NoError(t, err)
	require.JSONEq(t, `{"root":[]}`, string(data))

	require.NoError(t, s.Put("structure", []byte(`{"root":["a"]}`)))

	data, err = s.Get("structure")
	require.NoError(t, err)
	require.JSONEq(t, `{"root":["a"]}`, string(data))
}

func TestStore_MissingKey(t *testing.T) {
	s := newTestStore(t)

	data, err := s.Get("absent")
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("key", []byte(`1`)))
	require.NoError(t, s.Delete("key"))

	data, err := s.Get("key")
	require.NoError(t, err)
	require.Nil(t, data)

	// Deleting again is fine.
	require.NoError(t, s.Delete("key"))
}

func TestStore_Keys(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("folder:a", []byte(`{}`)))
	require.NoError(t, s.Put("folder:b", []byte(`{}`)))
	require.NoError(t, s.Put("structure", []byte(`{}`)))

	keys, err := s.Keys("folder:")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"folder:a", "folder:b"}, keys)

	all, err := s.Keys("")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestStore_EscapedKeys(t *testing.T) {
	s := newTestStore(t)

	key := "folder:weird/id with spaces"
	require.NoError(t, s.Put(key, []byte(`{}`)))

	data, err := s.Get(key)
	require.NoError(t, err)
	require.NotNil(t, data)

	keys, err := s.Keys("folder:")
	require.NoError(t, err)
	require.Equal(t, []string{key}, keys)
}
