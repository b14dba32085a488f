package staff

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateListDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	h := NewHandler(repo, logging.Discard())
	routes := h.Routes()

	body := `{"name":"Nia","age":29,"contact":"1234567890","email":"nia@hospital.com","password":"pw","role":"Nurse","shift_timing":"night"}`
	w := serve(routes, http.MethodPost, "/", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"password":"****"`)
	assert.NotContains(t, w.Body.String(), "password_hash")

	assert.Equal(t, http.StatusConflict, serve(routes, http.MethodPost, "/", body).Code)

	w = serve(routes, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = serve(routes, http.MethodDelete, "/"+url.PathEscape("nia@hospital.com"), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(routes, http.MethodDelete, "/"+url.PathEscape("nia@hospital.com"), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CreateInvalid(t *testing.T) {
	repo, _ := newTestRepo(t)
	h := NewHandler(repo, logging.Discard())

	w := serve(h.Routes(), http.MethodPost, "/", `{"name":"Nia","contact":"12","email":"nia@hospital.com","password":"pw","role":"Nurse"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListDoctors(t *testing.T) {
	repo, _ := newTestRepo(t)
	h := NewHandler(repo, logging.Discard())

	w := serve(http.HandlerFunc(h.ListDoctors), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"doctors":[]}`, w.Body.String())
}
