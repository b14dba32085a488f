package patients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func TestHandler_RegisterAndList(t *testing.T) {
	repo, _ := newTestRepo(t)
	h := NewHandler(repo, logging.Discard())

	w := serve(h, http.MethodPost, "/", `{"name":"Asha","age":30,"contact":"9876543210","blood_group":"A+"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var p Patient
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, 101, p.PID)

	w = serve(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list ListPatientsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)

	w = serve(h, http.MethodGet, "/101", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(h, http.MethodGet, "/500", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = serve(h, http.MethodGet, "/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RegisterInvalidContact(t *testing.T) {
	repo, _ := newTestRepo(t)
	h := NewHandler(repo, logging.Discard())

	w := serve(h, http.MethodPost, "/", `{"name":"Asha","contact":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrInvalidContact.Error())
}

func TestHandler_UpdateStatus(t *testing.T) {
	repo, _ := newTestRepo(t)
	h := NewHandler(repo, logging.Discard())
	require.Equal(t, http.StatusCreated, serve(h, http.MethodPost, "/", `{"name":"Asha","contact":"9876543210"}`).Code)

	w := serve(h, http.MethodPut, "/101/status", `{"status":"admitted"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pid":101,"current_status":"ADMITTED"}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPut, "/101/status", `{"status":"lost"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPut, "/102/status", `{"status":"PENDING"}`).Code)
}
