package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"sentimentd/internal/engine"
	"sentimentd/internal/httpapi"
	"sentimentd/pkg/types"
)

func newServer(t *testing.T, modelPath string) *httptest.Server {
	t.Helper()
	eng := engine.New(engine.Config{ModelPath: modelPath}, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(eng))
	t.Cleanup(srv.Close)
	return srv
}

func postPredict(t *testing.T, base, contentType, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, base+"/predict", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp.StatusCode, b
}

func TestE2E_PositivePrediction(t *testing.T) {
	srv := newServer(t, "")
	code, body := postPredict(t, srv.URL, "application/json", `{"text":"I love this product!"}`)
	if code != http.StatusOK {
		t.Fatalf("status=%d body=%s", code, body)
	}
	var resp types.PredictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Sentiment != "POSITIVE" {
		t.Fatalf("sentiment=%s", resp.Sentiment)
	}
	if resp.Score < 0.9 || resp.Score > 1.0 {
		t.Fatalf("score=%v, want near 1.0", resp.Score)
	}
	// Rounded to 4 decimals: scaled by 1e4 it is an integer.
	if scaled := resp.Score * 10000; math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		t.Fatalf("score %v not rounded to 4 decimals", resp.Score)
	}
}

func TestE2E_NegativePrediction(t *testing.T) {
	srv := newServer(t, "")
	code, body := postPredict(t, srv.URL, "application/json", `{"text":"This is the worst experience ever."}`)
	if code != http.StatusOK {
		t.Fatalf("status=%d body=%s", code, body)
	}
	var resp types.PredictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Sentiment != "NEGATIVE" {
		t.Fatalf("sentiment=%s", resp.Sentiment)
	}
	if resp.Score < 0.9 {
		t.Fatalf("score=%v, want near 1.0", resp.Score)
	}
}

func TestE2E_ValidationMessages(t *testing.T) {
	srv := newServer(t, "")
	cases := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantMsg     string
	}{
		{"non-json content type", "text/plain", `{"text":"hi"}`, 400, "Request must be JSON"},
		{"bad json body", "application/json", "nope", 400, "Request must be JSON"},
		{"no text key", "application/json", `{}`, 400, "Missing or invalid 'text' field in JSON payload"},
		{"empty text", "application/json", `{"text":""}`, 400, "Missing or invalid 'text' field in JSON payload"},
		{"numeric text", "application/json", `{"text":7}`, 400, "Missing or invalid 'text' field in JSON payload"},
		{"overlength text", "application/json", `{"text":"` + strings.Repeat("x", 513) + `"}`, 400, "Input text exceeds maximum length of 512 characters"},
	}
	for _, c := range cases {
		code, body := postPredict(t, srv.URL, c.contentType, c.body)
		if code != c.wantStatus {
			t.Fatalf("%s: status=%d body=%s", c.name, code, body)
		}
		var er types.ErrorResponse
		if err := json.Unmarshal(body, &er); err != nil {
			t.Fatalf("%s: json: %v", c.name, err)
		}
		if er.Error != c.wantMsg {
			t.Fatalf("%s: msg=%q", c.name, er.Error)
		}
	}
}

func TestE2E_BoundaryLengthAccepted(t *testing.T) {
	srv := newServer(t, "")
	code, body := postPredict(t, srv.URL, "application/json", `{"text":"`+strings.Repeat("x", 512)+`"}`)
	if code != http.StatusOK {
		t.Fatalf("status=%d body=%s", code, body)
	}
}

func TestE2E_StartupFailureServes503(t *testing.T) {
	srv := newServer(t, filepath.Join(t.TempDir(), "absent-weights.json"))

	// Every /predict answers 503 with the startup error message, no matter
	// how malformed the request is.
	for _, body := range []string{`{"text":"fine"}`, "garbage", `{}`} {
		code, respBody := postPredict(t, srv.URL, "application/json", body)
		if code != http.StatusServiceUnavailable {
			t.Fatalf("status=%d body=%s", code, respBody)
		}
		var er types.ErrorResponse
		if err := json.Unmarshal(respBody, &er); err != nil {
			t.Fatalf("json: %v", err)
		}
		if er.Error != "Model is not available due to a startup error" {
			t.Fatalf("msg=%q", er.Error)
		}
	}

	// Liveness stays green, readiness does not.
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz err=%v", err)
	}
	resp.Body.Close()
	resp, err = http.Get(srv.URL + "/readyz")
	if err != nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz err=%v status=%d", err, resp.StatusCode)
	}
	resp.Body.Close()
}

func TestE2E_StatusReportsModel(t *testing.T) {
	srv := newServer(t, "")
	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !st.Ready || st.Model == "" || len(st.Labels) != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}
}
