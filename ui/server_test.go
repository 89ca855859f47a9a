package ui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"alocdash/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *testkit.TestKit) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kit, err := testkit.NewTestKit(t.TempDir(), testkit.SampleNetwork())
	require.NoError(t, err)

	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	server := NewServer(kit.Service, Assets)
	require.NoError(t, server.Initialize(api))
	return server, kit
}

func get(t *testing.T, server *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestDashboardOverview(t *testing.T) {
	server, _ := newTestServer(t)

	w := get(t, server, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Alocação de Diretores")
	assert.Contains(t, body, "Alocação de Coordenadores")
	assert.Contains(t, body, "Alocação de Aplicadores")
	assert.Contains(t, body, "50.0% concluído")
	assert.Contains(t, body, "66.7%")
	assert.Contains(t, body, "GRE 2")
	assert.NotContains(t, body, "2. Detalhamento", "no GRE selected yet")
}

func TestDashboardRegionAndHub(t *testing.T) {
	server, _ := newTestServer(t)

	w := get(t, server, "/?gre=gre+1&polo=Polo+A")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "2. Detalhamento por Polo da GRE 1")
	assert.Contains(t, body, "3. Registros do Polo Polo A na GRE 1")
	assert.Contains(t, body, "Escola Alfa")
	assert.Contains(t, body, "Maria Souza")
	assert.Contains(t, body, "Sem informação")
	assert.Contains(t, body, "Com Diretor")
	assert.Contains(t, body, "Sem Diretor")
	assert.NotContains(t, body, "Escola Delta")
}

func TestDashboardRendersNA(t *testing.T) {
	server, _ := newTestServer(t)

	w := get(t, server, "/?funcao=coordenador")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "N/A")
	assert.Contains(t, w.Body.String(), "bar-na")
}

func TestDashboardApplicatorsPanel(t *testing.T) {
	server, _ := newTestServer(t)

	w := get(t, server, "/?relatorio=aplicadores")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Base de dados ainda não adicionada")
	assert.Contains(t, body, "será adicionada futuramente")
	assert.NotContains(t, body, "1. % por GRE")
}

func TestDashboardNotices(t *testing.T) {
	server, _ := newTestServer(t)

	w := get(t, server, "/?gre=GRE+9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "não encontrada na base de totais")

	w = get(t, server, "/?gre=GRE+1&polo=Polo+Z")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "não encontrado na GRE GRE 1")
}

func TestDashboardLoadFailure(t *testing.T) {
	server, kit := newTestServer(t)
	require.NoError(t, os.Remove(kit.Files.Allocation))

	w := get(t, server, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "não foi possível carregar a base de alocação")
	assert.Contains(t, w.Body.String(), "LOAD_FAILURE")
}

func TestDashboardRejectsBadInput(t *testing.T) {
	server, _ := newTestServer(t)

	for _, target := range []string{
		"/?funcao=zelador",
		"/?ordem=alfabetica",
		"/?relatorio=financeiro",
		"/?alocacao=../../etc/passwd",
	} {
		w := get(t, server, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT", target)
	}
}

func TestDashboardOrdering(t *testing.T) {
	server, _ := newTestServer(t)

	byPercentage := get(t, server, "/?gre=GRE+1").Body.String()
	bySource := get(t, server, "/?gre=GRE+1&ordem=origem").Body.String()

	assert.Less(t, strings.Index(byPercentage, ">Polo B<"), strings.Index(byPercentage, ">Polo A<"))
	assert.Less(t, strings.Index(bySource, ">Polo A<"), strings.Index(bySource, ">Polo B<"))
}

func TestStaticAndAPIMount(t *testing.T) {
	server, _ := newTestServer(t)

	w := get(t, server, "/static/css/dashboard.css")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, server, "/api/report")
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = get(t, server, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQueryLinkKeepsState(t *testing.T) {
	q := dashboardQuery{Report: reportAllocation, Role: "coordenador", Order: orderSource}
	assert.Equal(t, "/?funcao=coordenador&gre=GRE+1&ordem=origem", q.link("GRE 1", ""))

	q = dashboardQuery{Report: reportAllocation, Role: "diretor", Order: orderPercentage}
	assert.Equal(t, "/", q.link("", ""))
}
