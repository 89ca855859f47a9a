package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"alocdash/internal/errors"
	"alocdash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"PORT", "GIN_MODE", "DATA_DIR", "HIERARCHY_FILE", "ALLOCATION_FILE",
		"ALLOCATION_SHEET", "ALLOCATION_HEADER_ROW", "REQUIRED_DIRECTORS", "REQUIRED_COORDINATORS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "ERROR")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := run(t, "sample", dir, "--exemplo")
	require.NoError(t, err)
	assert.Contains(t, out, "GRE_Polo_Turma_Escola.xlsx (5 linhas)")
	assert.Contains(t, out, "(4 registros)")
	return dir
}

func TestReportRegions(t *testing.T) {
	dir := sampleDir(t)

	out, err := run(t, "report", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Alocação de Diretores: 50.0% (2 de 4)")
	assert.Contains(t, out, "Alocação de Aplicadores: N/A (base: será adicionada futuramente)")
	assert.Contains(t, out, "GRE 1")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "0.0%")
}

func TestReportHubAndSchools(t *testing.T) {
	dir := sampleDir(t)

	out, err := run(t, "report", "--data-dir", dir, "--gre", "gre 1")
	require.NoError(t, err)
	assert.Contains(t, out, "GRE 1: 66.7%")
	assert.Contains(t, out, "Polo B")
	assert.Contains(t, out, "Faltam")
	assert.NotContains(t, out, "Polo C")

	out, err = run(t, "report", "--data-dir", dir, "--gre", "GRE 1", "--polo", "polo a")
	require.NoError(t, err)
	assert.Contains(t, out, "GRE 1 / Polo A: 50.0%, turmas com Diretor: 2 de 3")
	assert.Contains(t, out, "Maria Souza")
	assert.Contains(t, out, "Sem Diretor")
}

func TestReportJSON(t *testing.T) {
	dir := sampleDir(t)

	out, err := run(t, "report", "--data-dir", dir, "--json", "--funcao", "coordenador")
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "coordenador", body["role"])
	assert.Nil(t, body["report"].(map[string]interface{})["percentage"])
}

func TestReportErrors(t *testing.T) {
	dir := sampleDir(t)

	_, err := run(t, "report", "--data-dir", dir, "--funcao", "zelador")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = run(t, "report", "--data-dir", dir, "--gre", "GRE 9")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = run(t, "report", "--data-dir", t.TempDir())
	assert.Equal(t, errors.CodeLoadFailure, errors.GetCode(err))
}

func TestCheck(t *testing.T) {
	dir := sampleDir(t)

	out, err := run(t, "check", "--data-dir", dir, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "5 linhas, 2 GREs, 3 polos, 4 escolas")
	assert.Contains(t, out, "Nenhuma linha ignorada.")
}

func TestCheckStrictWithDroppedRows(t *testing.T) {
	dir := t.TempDir()
	n := testkit.SampleNetwork()
	n.Hierarchy = append(n.Hierarchy, []interface{}{"GRE 2", "", "1º ano", "Escola Sem Polo", ""})
	n.Allocation = append(n.Allocation, []interface{}{"GRE 9", "", "Escola Fantasma", "Polo Z", "Diretor", "Ana"})
	_, err := testkit.WriteNetwork(dir, n)
	require.NoError(t, err)

	out, err := run(t, "check", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "polo vazio")
	assert.Contains(t, out, "Escola Fantasma")

	_, err = run(t, "check", "--data-dir", dir, "--strict")
	require.Error(t, err)
	assert.Equal(t, errors.CodeMissingReference, errors.GetCode(err))
	assert.Equal(t, "[MISSING_REFERENCE] 2 linha(s) ignorada(s)", formatError(err))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] GRE \"X\" not found", formatError(errors.NotFound(`GRE "X"`)))
	assert.Equal(t, assert.AnError.Error(), formatError(assert.AnError))
}
