package routetable_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/routetable"
)

func route(method, path string) mockd.Route {
	return mockd.Route{Method: method, Path: path, Response: json.RawMessage(`{"ok":true}`)}
}

func TestInsertAndLookup(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))

	got, ok := tbl.Lookup("GET", "/api/u")
	require.True(t, ok)
	assert.Equal(t, "GET", got.Method)

	_, ok = tbl.Lookup("POST", "/api/u")
	assert.False(t, ok)
}

func TestInsertConflict(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))
	err := tbl.Insert(route("GET", "/api/u"))
	require.Error(t, err)
	assert.Equal(t, mockd.KindConflict, mockd.KindOf(err))
}

func TestInsertRejectsAdminPrefix(t *testing.T) {
	tbl := routetable.New()
	err := tbl.Insert(route("GET", "/__mock/endpoints"))
	require.Error(t, err)
	assert.Equal(t, mockd.KindInvalid, mockd.KindOf(err))
}

func TestInsertRejectsRelativePath(t *testing.T) {
	tbl := routetable.New()
	err := tbl.Insert(route("GET", "api/u"))
	require.Error(t, err)
	assert.Equal(t, mockd.KindInvalid, mockd.KindOf(err))
}

func TestInsertRequiresResponseOrProxy(t *testing.T) {
	tbl := routetable.New()
	err := tbl.Insert(mockd.Route{Method: "GET", Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, mockd.KindInvalid, mockd.KindOf(err))
}

func TestUpdateSameIdentity(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))

	updated := route("GET", "/api/u")
	updated.Status = 201
	require.NoError(t, tbl.Update("GET", "/api/u", updated))

	got, ok := tbl.Lookup("GET", "/api/u")
	require.True(t, ok)
	assert.Equal(t, 201, got.Status)
}

func TestUpdateMovesIdentity(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))

	moved := route("POST", "/api/v")
	require.NoError(t, tbl.Update("GET", "/api/u", moved))

	_, ok := tbl.Lookup("GET", "/api/u")
	assert.False(t, ok)
	_, ok = tbl.Lookup("POST", "/api/v")
	assert.True(t, ok)
}

func TestUpdateMoveConflict(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))
	require.NoError(t, tbl.Insert(route("GET", "/api/v")))

	err := tbl.Update("GET", "/api/u", route("GET", "/api/v"))
	require.Error(t, err)
	assert.Equal(t, mockd.KindConflict, mockd.KindOf(err))
}

func TestUpdateNotFound(t *testing.T) {
	tbl := routetable.New()
	err := tbl.Update("GET", "/nope", route("GET", "/nope"))
	require.Error(t, err)
	assert.Equal(t, mockd.KindNotFound, mockd.KindOf(err))
}

func TestRemove(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))
	assert.True(t, tbl.Remove("GET", "/api/u"))
	assert.False(t, tbl.Remove("GET", "/api/u"))
}

func TestListIsSortedAndStable(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("POST", "/b")))
	require.NoError(t, tbl.Insert(route("GET", "/a")))
	require.NoError(t, tbl.Insert(route("GET", "/b")))

	list := tbl.List()
	require.Len(t, list, 3)
	assert.Equal(t, "/a", list[0].Path)
	assert.Equal(t, "/b", list[1].Path)
	assert.Equal(t, "GET", list[1].Method)
	assert.Equal(t, "/b", list[2].Path)
	assert.Equal(t, "POST", list[2].Method)
}

func TestBulkReplaceIsAtomic(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/old")))

	err := tbl.BulkReplace([]mockd.Route{route("GET", "/new"), route("GET", "/__mock/bad")})
	require.Error(t, err)

	// the table must be untouched since one route in the batch was invalid
	_, ok := tbl.Lookup("GET", "/old")
	assert.True(t, ok)
	_, ok = tbl.Lookup("GET", "/new")
	assert.False(t, ok)
}

func TestBulkReplaceSwapsEntireSet(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/old")))

	require.NoError(t, tbl.BulkReplace([]mockd.Route{route("GET", "/new")}))

	_, ok := tbl.Lookup("GET", "/old")
	assert.False(t, ok)
	_, ok = tbl.Lookup("GET", "/new")
	assert.True(t, ok)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	tbl := routetable.New()
	require.NoError(t, tbl.Insert(route("GET", "/api/u")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tbl.Lookup("GET", "/api/u")
		}()
		go func(i int) {
			defer wg.Done()
			_ = tbl.Insert(route("GET", "/api/concurrent"))
			tbl.Remove("GET", "/api/concurrent")
		}(i)
	}
	wg.Wait()
}
