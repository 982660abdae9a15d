package server_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/api/middleware"
	"github.com/decibling/smart-contracts/internal/api/server"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/faucet"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/metrics"
	"github.com/decibling/smart-contracts/internal/mocks"
)

const address = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	ctrl     *gomock.Controller
	faucet   *mocks.MockFaucet
	recorder *metrics.Recorder
	handler  http.Handler
}

func setupTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	ts := &testServer{
		ctrl:     ctrl,
		faucet:   mocks.NewMockFaucet(ctrl),
		recorder: metrics.NewRecorder(),
	}
	ts.handler = server.New(server.Config{}, ts.faucet, ts.recorder).Router()
	return ts
}

func (ts *testServer) get(path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		for _, value := range v {
			req.Header.Add(k, value)
		}
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func TestGain(t *testing.T) {
	tests := []struct {
		name     string
		result   faucet.Result
		err      error
		expected string
	}{
		{name: "granted", result: faucet.ResultDone, expected: "done"},
		{name: "cooldown", result: faucet.ResultWait, err: domain.ErrRateLimited, expected: "wait"},
		{name: "internal error is not leaked", result: faucet.ResultFailed, err: errors.New("redis: connection refused"), expected: "failed"},
		{name: "empty result reads as failed", result: "", err: errors.New("boom"), expected: "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			defer ts.ctrl.Finish()

			ts.faucet.EXPECT().Request(gomock.Any(), address).Return(tt.result, tt.err)

			w := ts.get("/gain/"+address, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	w := ts.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"decibling-faucet"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	ts.recorder.FaucetRequest("wait")

	w := ts.get("/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `decibling_faucet_requests_total{result="wait"} 1`)
}

func TestRequestID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	w := ts.get("/healthz", nil)
	generated := w.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)

	id := uuid.NewString()
	w = ts.get("/healthz", http.Header{middleware.RequestIDHeader: []string{id}})
	assert.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))

	w = ts.get("/healthz", http.Header{middleware.RequestIDHeader: []string{"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(middleware.RequestIDHeader))
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	ts.faucet.EXPECT().Request(gomock.Any(), address).Return(faucet.ResultDone, nil)

	w := ts.get("/gain/"+address, http.Header{"Origin": []string{"https://app.decibling.io"}})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	w := ts.get("/gain", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
