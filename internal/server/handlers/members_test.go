package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/pkg/api"
)

// failingMemberStorage возвращает ошибку на любой вызов
type failingMemberStorage struct{ err error }

func (f failingMemberStorage) ListMembers(context.Context) ([]models.Member, error) {
	return nil, f.err
}
func (f failingMemberStorage) CreateMember(context.Context, *models.Member) error { return f.err }
func (f failingMemberStorage) UpdateMember(context.Context, *models.Member) error { return f.err }
func (f failingMemberStorage) DeleteMember(context.Context, string) error         { return f.err }

func createMember(t *testing.T, h *MemberHandler, name string) models.Member {
	t.Helper()
	w := httptest.NewRecorder()
	h.Save(w, jsonRequest(t, http.MethodPost, "/user/save", api.CreateMemberRequest{Name: name}))

	env := decodeEnvelope(t, w, http.StatusOK)
	require.Equal(t, api.CodeSuccess, env.Code, env.Message)
	var member models.Member
	require.NoError(t, json.Unmarshal(env.Data, &member))
	return member
}

func TestMemberHandler_SaveAndList(t *testing.T) {
	h := NewMemberHandler(setupTestLogger(), setupTestStorage(t))

	created := createMember(t, h, "  Alice  ")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Alice", created.Name)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/user/getAll", nil))
	env := decodeEnvelope(t, w, http.StatusOK)
	require.Equal(t, api.CodeSuccess, env.Code)

	var members []models.Member
	require.NoError(t, json.Unmarshal(env.Data, &members))
	require.Len(t, members, 1)
	assert.Equal(t, created.ID, members[0].ID)
}

func TestMemberHandler_SaveValidation(t *testing.T) {
	h := NewMemberHandler(setupTestLogger(), setupTestStorage(t))

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "broken json", body: "{"},
		{name: "blank name", body: `{"name":"   "}`},
		{name: "too long name", body: `{"name":"` + strings.Repeat("x", 65) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user/save", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Save(w, req)

			// Прикладная ошибка приходит со статусом 200
			env := decodeEnvelope(t, w, http.StatusOK)
			assert.Equal(t, api.CodeBadRequest, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestMemberHandler_Update(t *testing.T) {
	h := NewMemberHandler(setupTestLogger(), setupTestStorage(t))
	member := createMember(t, h, "Alice")

	w := httptest.NewRecorder()
	h.Update(w, jsonRequest(t, http.MethodPost, "/user/update", api.UpdateMemberRequest{ID: member.ID, Name: "Alicia"}))
	env := decodeEnvelope(t, w, http.StatusOK)
	require.Equal(t, api.CodeSuccess, env.Code)

	var updated models.Member
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Alicia", updated.Name)

	w = httptest.NewRecorder()
	h.Update(w, jsonRequest(t, http.MethodPost, "/user/update", api.UpdateMemberRequest{ID: "missing", Name: "X"}))
	assert.Equal(t, api.CodeNotFound, decodeEnvelope(t, w, http.StatusOK).Code)

	w = httptest.NewRecorder()
	h.Update(w, jsonRequest(t, http.MethodPost, "/user/update", api.UpdateMemberRequest{Name: "X"}))
	assert.Equal(t, api.CodeBadRequest, decodeEnvelope(t, w, http.StatusOK).Code)
}

func TestMemberHandler_Delete(t *testing.T) {
	h := NewMemberHandler(setupTestLogger(), setupTestStorage(t))
	member := createMember(t, h, "Alice")

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /user/delete/{id}", h.Delete)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user/delete/"+member.ID, nil))
	assert.Equal(t, api.CodeSuccess, decodeEnvelope(t, w, http.StatusOK).Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user/delete/"+member.ID, nil))
	assert.Equal(t, api.CodeNotFound, decodeEnvelope(t, w, http.StatusOK).Code)
}

func TestMemberHandler_StorageFailure(t *testing.T) {
	h := NewMemberHandler(setupTestLogger(), failingMemberStorage{err: errors.New("disk full")})

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/user/getAll", nil))
	env := decodeEnvelope(t, w, http.StatusOK)
	assert.Equal(t, api.CodeInternal, env.Code)
	assert.NotContains(t, env.Message, "disk full", "детали хранилища не раскрываются")

	w = httptest.NewRecorder()
	h.Save(w, jsonRequest(t, http.MethodPost, "/user/save", api.CreateMemberRequest{Name: "Alice"}))
	assert.Equal(t, api.CodeInternal, decodeEnvelope(t, w, http.StatusOK).Code)
}
