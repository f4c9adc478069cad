package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/adapters/modelfile"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/api"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/service"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/testutil"
)

type fixture struct {
	srv      *httptest.Server
	template *testutil.MockChatSession
	factory  *testutil.MockSessionFactory
	interp   *service.Interpreter
}

func newFixture(t *testing.T, template *testutil.MockChatSession, opts ...api.ServerOption) *fixture {
	t.Helper()
	factory := &testutil.MockSessionFactory{Template: template}
	interp := service.NewInterpreter(service.InterpreterConfig{
		Sessions:  factory,
		Extractor: modelfile.NewExtractor(),
	})
	srv := httptest.NewServer(api.NewServer(interp, opts...).Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, template: template, factory: factory, interp: interp}
}

func (f *fixture) post(t *testing.T, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}
	resp, err := http.Post(f.srv.URL+"/api/v1/interpret", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func faTemplate() *testutil.MockChatSession {
	return testutil.NewMockChatSession("anthropic", "claude-test").
		WithReplies(testutil.ComponentReply("MR1", "MR2", "MR3"))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, faTemplate())

	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestListKinds(t *testing.T) {
	f := newFixture(t, faTemplate())

	resp, err := http.Get(f.srv.URL + "/api/v1/kinds")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Kinds []api.KindInfo `json:"kinds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	byKind := map[core.AnalysisKind]api.KindInfo{}
	for _, k := range body.Kinds {
		byKind[k.Kind] = k
	}
	require.Len(t, byKind, len(core.KnownKinds()))
	assert.True(t, byKind[core.KindFactorAnalysis].Registered)
	assert.True(t, byKind[core.KindGaussianMixture].Registered)
	assert.False(t, byKind[core.KindIRT].Registered)
	assert.Equal(t, "Cluster", byKind[core.KindGaussianMixture].Component)
}

func TestInterpret_Success(t *testing.T) {
	f := newFixture(t, faTemplate())

	resp, body := f.post(t, map[string]interface{}{
		"kind":            "fa",
		"data":            testutil.FactorInput(),
		"options":         map[string]interface{}{"word_limit": 60, "verbosity": true},
		"additional_info": "Survey of university students.",
		"report":          "markdown",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	interp := body["interpretation"].(map[string]interface{})
	assert.Equal(t, "fa", interp["kind"])
	assert.NotEmpty(t, interp["id"])
	result := interp["result"].(map[string]interface{})
	assert.Equal(t, "clean", result["tier_label"])
	names := result["suggested_names"].(map[string]interface{})
	assert.Equal(t, "Name MR2", names["MR2"])

	opts := interp["options"].(map[string]interface{})
	assert.EqualValues(t, 60, opts["word_limit"])
	assert.EqualValues(t, 2, opts["verbosity"])
	assert.Equal(t, "Survey of university students.", opts["additional_info"])

	assert.Contains(t, body["report"], "Factor analysis interpretation")

	created := f.factory.Created()
	require.Len(t, created, 1)
	assert.Contains(t, created[0].Prompts()[0], "Survey of university students.")
}

func TestInterpret_FromModelDocument(t *testing.T) {
	template := testutil.NewMockChatSession("ollama", "llama3").
		WithReplies(testutil.ComponentReply("Cluster1", "Cluster2"))
	f := newFixture(t, template)

	resp, body := f.post(t, map[string]interface{}{
		"kind": "gmm",
		"model": map[string]interface{}{
			"class":       "sklearn.GaussianMixture",
			"variables":   []string{"income", "age"},
			"means":       [][]float64{{1.0, -0.5}, {-1.0, 0.5}},
			"proportions": []float64{0.5, 0.5},
			"variable_info": []map[string]string{
				{"variable": "income", "description": "Annual income"},
				{"variable": "age", "description": "Age in years"},
			},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	interp := body["interpretation"].(map[string]interface{})
	assert.Equal(t, "gm", interp["kind"])
}

func TestInterpret_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		template *testutil.MockChatSession
		body     interface{}
		status   int
		category string
	}{
		{
			name:     "invalid option",
			body:     map[string]interface{}{"kind": "fa", "data": testutil.FactorInput(), "options": map[string]interface{}{"cutoff": 2}},
			status:   http.StatusUnprocessableEntity,
			category: "config",
		},
		{
			name:     "unregistered kind",
			body:     map[string]interface{}{"kind": "pca", "data": testutil.FactorInput()},
			status:   http.StatusUnprocessableEntity,
			category: "config",
		},
		{
			name:     "malformed input",
			body:     map[string]interface{}{"kind": "fa", "data": map[string]interface{}{"factors": []string{"MR1"}}},
			status:   http.StatusUnprocessableEntity,
			category: "validation",
		},
		{
			name:     "unsupported model",
			body:     map[string]interface{}{"kind": "fa", "model": map[string]interface{}{"class": "lavaan::cfa"}},
			status:   http.StatusUnprocessableEntity,
			category: "validation",
		},
		{
			name:     "not implemented",
			body:     map[string]interface{}{"kind": "irt", "data": testutil.FactorInput()},
			status:   http.StatusNotImplemented,
			category: "not_implemented",
		},
		{
			name:     "chat failure",
			template: testutil.NewMockChatSession("anthropic", "m").WithError(errors.New("connection refused")),
			body:     map[string]interface{}{"kind": "fa", "data": testutil.FactorInput()},
			status:   http.StatusBadGateway,
			category: "collaborator",
		},
		{
			name:     "chat deadline",
			template: testutil.NewMockChatSession("anthropic", "m").WithError(fmt.Errorf("post: %w", context.DeadlineExceeded)),
			body:     map[string]interface{}{"kind": "fa", "data": testutil.FactorInput()},
			status:   http.StatusGatewayTimeout,
			category: "collaborator",
		},
		{
			name:     "chat canceled",
			template: testutil.NewMockChatSession("anthropic", "m").WithError(context.Canceled),
			body:     map[string]interface{}{"kind": "fa", "data": testutil.FactorInput()},
			status:   http.StatusServiceUnavailable,
			category: "collaborator",
		},
		{
			name:     "bad verbosity",
			body:     map[string]interface{}{"kind": "fa", "data": testutil.FactorInput(), "options": map[string]interface{}{"verbosity": 5}},
			status:   http.StatusUnprocessableEntity,
			category: "config",
		},
		{
			name:     "unknown option",
			body:     map[string]interface{}{"kind": "fa", "data": testutil.FactorInput(), "options": map[string]interface{}{"colour": "red"}},
			status:   http.StatusUnprocessableEntity,
			category: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := tt.template
			if template == nil {
				template = faTemplate()
			}
			f := newFixture(t, template)

			resp, body := f.post(t, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, body)
			assert.Equal(t, tt.category, body["category"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestInterpret_BadRequests(t *testing.T) {
	f := newFixture(t, faTemplate(), api.WithMaxBodyBytes(256))

	resp, body := f.post(t, "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid JSON body")

	resp, _ = f.post(t, `{"kind":"fa","surprise":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.post(t, `{"kind":"fa","additional_info":"`+strings.Repeat("x", 512)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, body["error"], "256 bytes")
}

func TestInterpret_DegradedResultIsStillSuccessful(t *testing.T) {
	template := testutil.NewMockChatSession("anthropic", "m").WithReplies("no structure here")
	f := newFixture(t, template)

	resp, body := f.post(t, map[string]interface{}{"kind": "fa", "data": testutil.FactorInput(), "report": "cli"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := body["interpretation"].(map[string]interface{})["result"].(map[string]interface{})
	assert.Equal(t, "default", result["tier_label"])
	assert.Contains(t, body["report"], "PLACEHOLDERS")
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, faTemplate())
	f.post(t, map[string]interface{}{"kind": "fa", "data": testutil.FactorInput()})
	f.post(t, map[string]interface{}{"kind": "irt", "data": testutil.FactorInput()})

	resp, err := http.Get(f.srv.URL + "/api/v1/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := f.interp.Metrics().Snapshot()
	assert.Equal(t, 2, snap.Totals.Requests)
	assert.Equal(t, 1, snap.Totals.Succeeded)
	assert.Equal(t, 1, snap.Totals.Failed)
}

func TestCORS(t *testing.T) {
	f := newFixture(t, faTemplate(), api.WithCORSOrigins([]string{"https://app.example"}))

	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/v1/interpret", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
