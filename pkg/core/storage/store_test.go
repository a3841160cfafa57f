package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/utreexo-go/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbSetup struct {
	name   string
	create func(testing.TB) Store
}

type dbTestFunction func(*testing.T, Store)

func newLevelDBForTesting(t testing.TB) Store {
	ldbDir := t.TempDir()
	s, err := NewLevelDBStore(dbconfig.LevelDBOptions{DataDirectoryPath: ldbDir})
	require.NoError(t, err, "NewLevelDBStore error")
	return s
}

func newBoltStoreForTesting(t testing.TB) Store {
	testFileName := filepath.Join(t.TempDir(), "test_bolt_db")
	s, err := NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: testFileName})
	require.NoError(t, err)
	return s
}

func newMemoryStoreForTesting(t testing.TB) Store {
	return NewMemoryStore()
}

func testStoreGetNonExistent(t *testing.T, s Store) {
	_, err := s.Get([]byte("sparse"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func testStorePutGetDelete(t *testing.T, s Store) {
	var (
		key   = []byte("sparse")
		value = []byte("rocks")
	)
	require.NoError(t, s.Put(key, value))

	newVal, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, newVal)

	require.NoError(t, s.Delete(key))
	_, err = s.Get(key)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is fine.
	require.NoError(t, s.Delete(key))
}

func testStorePutChangeSet(t *testing.T, s Store) {
	require.NoError(t, s.Put([]byte("gone"), []byte("soon")))
	require.NoError(t, s.PutChangeSet(map[string][]byte{
		"foo":  []byte("bar"),
		"baz":  []byte("quux"),
		"gone": nil,
	}))

	v, err := s.Get([]byte("foo"))
	require.NoError(t, err)
	require.Equal(t, []byte("bar"), v)
	v, err = s.Get([]byte("baz"))
	require.NoError(t, err)
	require.Equal(t, []byte("quux"), v)
	_, err = s.Get([]byte("gone"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func testStoreSeek(t *testing.T, s Store) {
	kvs := []KeyValue{
		{[]byte("10"), []byte("bar")},
		{[]byte("11"), []byte("bara")},
		{[]byte("20"), []byte("barb")},
		{[]byte("21"), []byte("barc")},
		{[]byte("22"), []byte("bard")},
		{[]byte("30"), []byte("bare")},
		{[]byte("31"), []byte("barf")},
	}
	for _, kv := range kvs {
		require.NoError(t, s.Put(kv.Key, kv.Value))
	}
	check := func(t *testing.T, rng SeekRange, expected []KeyValue, limit int) {
		var actual []KeyValue
		require.NoError(t, s.Seek(rng, func(k, v []byte) bool {
			actual = append(actual, KeyValue{Key: bytes.Clone(k), Value: bytes.Clone(v)})
			return limit == 0 || len(actual) < limit
		}))
		assert.Equal(t, expected, actual)
	}

	t.Run("prefix", func(t *testing.T) {
		check(t, SeekRange{Prefix: []byte("2")}, kvs[2:5], 0)
	})
	t.Run("prefix and start", func(t *testing.T) {
		check(t, SeekRange{Prefix: []byte("2"), Start: []byte("1")}, kvs[3:5], 0)
	})
	t.Run("missing start", func(t *testing.T) {
		check(t, SeekRange{Prefix: []byte("1"), Start: []byte("05")}, kvs[1:2], 0)
	})
	t.Run("all", func(t *testing.T) {
		check(t, SeekRange{}, kvs, 0)
	})
	t.Run("early stop", func(t *testing.T) {
		check(t, SeekRange{Prefix: []byte("3")}, kvs[5:6], 1)
	})
	t.Run("no match", func(t *testing.T) {
		check(t, SeekRange{Prefix: []byte("4")}, nil, 0)
	})
}

func TestAllDBs(t *testing.T) {
	var DBs = []dbSetup{
		{"BoltDB", newBoltStoreForTesting},
		{"LevelDB", newLevelDBForTesting},
		{"Memory", newMemoryStoreForTesting},
	}
	var tests = []dbTestFunction{
		testStoreGetNonExistent,
		testStorePutGetDelete,
		testStorePutChangeSet,
		testStoreSeek,
	}
	for _, db := range DBs {
		for _, test := range tests {
			s := db.create(t)
			t.Run(db.name, func(t *testing.T) {
				test(t, s)
			})
			require.NoError(t, s.Close())
		}
	}
}

func TestStorageNames(t *testing.T) {
	tmp := t.TempDir()
	cfg := dbconfig.DBConfiguration{
		LevelDBOptions: dbconfig.LevelDBOptions{
			DataDirectoryPath: filepath.Join(tmp, "level"),
		},
		BoltDBOptions: dbconfig.BoltDBOptions{
			FilePath: filepath.Join(tmp, "bolt", "db"),
		},
	}
	for _, name := range []string{dbconfig.BoltDB, dbconfig.LevelDB, dbconfig.InMemoryDB} {
		t.Run(name, func(t *testing.T) {
			cfg.Type = name
			s, err := NewStore(cfg)
			require.NoError(t, err)
			require.NoError(t, s.Close())
		})
	}

	cfg.Type = "redis"
	_, err := NewStore(cfg)
	require.Error(t, err)
}

func TestBoltDBReadOnly(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ro_bolt_db")
	s, err := NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: fileName})
	require.NoError(t, err)
	require.NoError(t, s.Put([]byte{0x01}, []byte{0x02}))
	require.NoError(t, s.Close())

	ro, err := NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: fileName, ReadOnly: true})
	require.NoError(t, err)
	v, err := ro.Get([]byte{0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0x02}, v)
	require.NoError(t, ro.Close())
}
