package mockd_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mockbridge/mockd"
)

func TestEngineRoutesAdminPrefixToAdmin(t *testing.T) {
	adminHit, dispatchHit := false, false
	admin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminHit = true
		assert.Equal(t, "/healthz", r.URL.Path, "AdminPrefix must be stripped before reaching admin")
	})
	dispatcher := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dispatchHit = true
	})

	engine := mockd.NewEngine(admin, dispatcher)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, mockd.AdminPrefix+"/healthz", nil))

	assert.True(t, adminHit)
	assert.False(t, dispatchHit)
}

func TestEngineRoutesEverythingElseToDispatcher(t *testing.T) {
	dispatchHit := false
	admin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("admin should not be reached")
	})
	dispatcher := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dispatchHit = true
	})

	engine := mockd.NewEngine(admin, dispatcher)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/u", nil))

	assert.True(t, dispatchHit)
}
