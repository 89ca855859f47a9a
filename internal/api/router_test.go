package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"alocdash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *testkit.TestKit) {
	t.Helper()
	kit, err := testkit.NewTestKit(t.TempDir(), testkit.SampleNetwork())
	require.NoError(t, err)
	return NewRouter(kit.Service), kit
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	var body map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w, body := do(t, router, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get("Cache-Control"))
}

func TestReport(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := do(t, router, http.MethodGet, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "diretor", body["role"])
	assert.NotEmpty(t, body["load_id"])

	report := body["report"].(map[string]interface{})
	assert.Equal(t, 50.0, report["percentage"])
	regions := report["regions"].([]interface{})
	require.Len(t, regions, 2)
	assert.Equal(t, "GRE 1", regions[0].(map[string]interface{})["name"], "source order")
	assert.Equal(t, 66.7, regions[0].(map[string]interface{})["percentage"])

	sources := body["sources"].(map[string]interface{})
	assert.NotContains(t, sources["hierarchy_path"], "/", "only base names leave the server")
}

func TestReportNAIsNull(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := do(t, router, http.MethodGet, "/api/report?funcao=coordenadores")
	require.Equal(t, http.StatusOK, w.Code)
	report := body["report"].(map[string]interface{})
	assert.Nil(t, report["percentage"])
	assert.Equal(t, "coordenador", body["role"])
}

func TestProgress(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := do(t, router, http.MethodGet, "/api/progress")
	require.Equal(t, http.StatusOK, w.Code)

	progress := body["progress"].([]interface{})
	require.Len(t, progress, 3)
	director := progress[0].(map[string]interface{})
	assert.Equal(t, "diretor", director["key"])
	assert.Equal(t, 50.0, director["percentage"])
	applicators := progress[2].(map[string]interface{})
	assert.Equal(t, true, applicators["placeholder"])
	assert.Nil(t, applicators["percentage"])
}

func TestRegionAndHub(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := do(t, router, http.MethodGet, "/api/regions/gre%201")
	require.Equal(t, http.StatusOK, w.Code)
	region := body["region"].(map[string]interface{})
	assert.Equal(t, "GRE 1", region["id"])
	assert.Len(t, region["hubs"], 2)
	assert.Nil(t, body["report"])

	w, body = do(t, router, http.MethodGet, "/api/regions/GRE%201/hubs/Polo%20A")
	require.Equal(t, http.StatusOK, w.Code)
	hub := body["hub"].(map[string]interface{})
	assert.Equal(t, 50.0, hub["percentage"])
	assert.Equal(t, 3.0, hub["classes"])
	assert.Len(t, hub["schools"], 2)
}

func TestNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{
		"/api/regions/GRE%209",
		"/api/regions/GRE%201/hubs/Polo%20Z",
		"/api/nada",
	} {
		w, body := do(t, router, http.MethodGet, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Equal(t, "NOT_FOUND", body["code"], target)
	}
}

func TestErrors(t *testing.T) {
	router, kit := newTestRouter(t)

	w, body := do(t, router, http.MethodGet, "/api/report?funcao=zelador")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	require.NoError(t, os.Remove(kit.Files.Hierarchy))
	w, body = do(t, router, http.MethodGet, "/api/report")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "LOAD_FAILURE", body["code"])
	assert.Contains(t, body["error"], "base de totais")
}

func TestInvalidateCache(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := do(t, router, http.MethodPost, "/api/cache/invalidate")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRegionNamesWithEscapes(t *testing.T) {
	n := testkit.SampleNetwork()
	for _, rows := range [][][]interface{}{n.Hierarchy, n.Allocation} {
		for _, row := range rows {
			if row[0] == "GRE 2" {
				row[0] = "GRE 100%"
			}
		}
	}
	n.Hierarchy = append(n.Hierarchy, []interface{}{"GRE A/B", "Polo E", "1º ano", "Escola Épsilon", 26000005})
	kit, err := testkit.NewTestKit(t.TempDir(), n)
	require.NoError(t, err)
	router := NewRouter(kit.Service)

	w, body := do(t, router, http.MethodGet, "/api/regions/GRE%20100%25")
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, "GRE 100%", body["region"].(map[string]interface{})["name"])

	w, body = do(t, router, http.MethodGet, "/api/regions/GRE%20A%2FB/hubs/Polo%20E")
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, "Polo E", body["hub"].(map[string]interface{})["name"])
}
