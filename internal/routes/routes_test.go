package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/testserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func do(t *testing.T, method, url, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, srv *testserver.Server) string {
	t.Helper()
	var resp models.LoginResponse
	status := do(t, http.MethodPost, srv.APIURL()+"/login", "",
		models.LoginRequest{Email: testserver.AdminEmail, Password: testserver.AdminPassword}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func submission() map[string]string {
	return map[string]string{
		"societe": "MIM",
		"date":    "2024-01-15",
		"nom":     "Durand",
		"prenom":  "Alice",
		"lieu":    "Site A",
		"type":    "AMELIORATION",
		"status":  "Traité", // ignored
	}
}

func TestHealth(t *testing.T) {
	srv := testserver.New(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmitThenListPublic(t *testing.T) {
	srv := testserver.New(t)

	var created models.Feedback
	status := do(t, http.MethodPost, srv.APIURL()+"/feedback", "", submission(), &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.StatusPending, created.Status)

	var list []models.Feedback
	status = do(t, http.MethodGet, srv.APIURL()+"/feedback/public", "", nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Durand", list[0].Nom)
	assert.Equal(t, models.StatusPending, list[0].Status)
}

func TestSubmitMissingField(t *testing.T) {
	srv := testserver.New(t)
	body := submission()
	delete(body, "lieu")

	var e apiError
	status := do(t, http.MethodPost, srv.APIURL()+"/feedback", "", body, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, e.Success)
	assert.Equal(t, models.RequiredFieldsMessage, e.Message)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := testserver.New(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/feedback"},
		{http.MethodGet, "/feedback/1"},
		{http.MethodPatch, "/feedback/1/status"},
		{http.MethodPatch, "/feedback/1/admin-action"},
		{http.MethodDelete, "/feedback/1"},
		{http.MethodGet, "/admin/types"},
		{http.MethodPost, "/types"},
		{http.MethodPatch, "/types/1"},
		{http.MethodDelete, "/types/1"},
		{http.MethodPost, "/logout"},
	} {
		var e apiError
		status := do(t, tc.method, srv.APIURL()+tc.path, "expired", nil, &e)
		assert.Equal(t, http.StatusUnauthorized, status, tc.method+" "+tc.path)
		assert.NotEmpty(t, e.Message)
	}
}

func TestLoginFailure(t *testing.T) {
	srv := testserver.New(t)
	var e apiError
	status := do(t, http.MethodPost, srv.APIURL()+"/login", "",
		models.LoginRequest{Email: testserver.AdminEmail, Password: "nope"}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Email ou mot de passe incorrect", e.Message)
}

func TestTriageFlow(t *testing.T) {
	srv := testserver.New(t)
	token := login(t, srv)

	var created models.Feedback
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.APIURL()+"/feedback", "", submission(), &created))
	base := srv.APIURL() + "/feedback/" + itoa(created.ID)

	for _, s := range []models.Status{models.StatusResolved, models.StatusPending, models.StatusInProgress} {
		var updated models.Feedback
		require.Equal(t, http.StatusOK, do(t, http.MethodPatch, base+"/status", token, models.StatusUpdateRequest{Status: s}, &updated))
		var got models.Feedback
		require.Equal(t, http.StatusOK, do(t, http.MethodGet, base, token, nil, &got))
		assert.Equal(t, s, got.Status)
	}

	var e apiError
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPatch, base+"/status", token, map[string]string{"status": "Fermé"}, &e))

	var annotated models.Feedback
	require.Equal(t, http.StatusOK, do(t, http.MethodPatch, base+"/admin-action", token, models.AdminActionRequest{ActionAdmin: "Sol nettoyé"}, &annotated))
	assert.Equal(t, "Sol nettoyé", annotated.ActionAdmin)

	var events []models.TriageEvent
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, base+"/history", token, nil, &events))
	assert.Len(t, events, 5)

	var ok apiError
	require.Equal(t, http.StatusOK, do(t, http.MethodDelete, base, token, nil, &ok))
	assert.True(t, ok.Success)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, base, token, nil, &e))
	var list []models.Feedback
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.APIURL()+"/feedback", token, nil, &list))
	assert.Empty(t, list)
}

func TestUnknownAndMalformedIDs(t *testing.T) {
	srv := testserver.New(t)
	token := login(t, srv)

	var e apiError
	status := do(t, http.MethodPatch, srv.APIURL()+"/feedback/7/status", token, models.StatusUpdateRequest{Status: models.StatusResolved}, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Remontée #7 introuvable", e.Message)

	status = do(t, http.MethodGet, srv.APIURL()+"/feedback/abc", token, nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = do(t, http.MethodGet, srv.APIURL()+"/feedback/3000000000", token, nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Identifiant invalide", e.Message)
}

func TestProblemTypeCatalog(t *testing.T) {
	srv := testserver.New(t)
	token := login(t, srv)

	var created models.ProblemType
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.APIURL()+"/types", token, models.CreateProblemTypeRequest{Label: " chute "}, &created))
	assert.Equal(t, "CHUTE", created.Label)
	assert.True(t, created.IsActive)

	var e apiError
	assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, srv.APIURL()+"/types", token, models.CreateProblemTypeRequest{Label: "CHUTE"}, &e))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.APIURL()+"/types", token, models.CreateProblemTypeRequest{Label: "  "}, &e))

	inactive := false
	var updated models.ProblemType
	require.Equal(t, http.StatusOK, do(t, http.MethodPatch, srv.APIURL()+"/types/"+itoa(created.ID), token, models.UpdateProblemTypeRequest{IsActive: &inactive}, &updated))
	assert.False(t, updated.IsActive)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPatch, srv.APIURL()+"/types/"+itoa(created.ID), token, map[string]string{}, &e))

	var active []models.ProblemType
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.APIURL()+"/types", "", nil, &active))
	assert.Len(t, active, 4)
	for _, pt := range active {
		assert.NotEqual(t, "CHUTE", pt.Label)
	}

	var all []models.ProblemType
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.APIURL()+"/admin/types", token, nil, &all))
	assert.Len(t, all, 5)

	var ok apiError
	require.Equal(t, http.StatusOK, do(t, http.MethodDelete, srv.APIURL()+"/types/"+itoa(created.ID), token, nil, &ok))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, srv.APIURL()+"/types/"+itoa(created.ID), token, nil, &e))
}

func TestLogoutInvalidatesToken(t *testing.T) {
	srv := testserver.New(t)
	token := login(t, srv)

	var ok apiError
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.APIURL()+"/logout", token, nil, &ok))

	var e apiError
	assert.Equal(t, http.StatusUnauthorized, do(t, http.MethodGet, srv.APIURL()+"/feedback", token, nil, &e))
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
