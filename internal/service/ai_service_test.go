package service

import (
	"context"
	"eduai_backend/internal/config"
	"eduai_backend/pkg/logger"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func TestGenerateExplanationMockMode(t *testing.T) {
	svc := NewAIService(config.AIConfig{}, nil)

	first, err := svc.GenerateExplanation(context.Background(), "What is photosynthesis?", "CBSE")
	if err != nil {
		t.Fatalf("mock mode returned error: %v", err)
	}

	if first.Source != SourceMock {
		t.Errorf("source = %q, want %q", first.Source, SourceMock)
	}
	if !strings.Contains(first.Text, "CBSE") {
		t.Errorf("mock text missing board: %q", first.Text)
	}
	if !strings.Contains(first.Text, "What is photosynthesis?") {
		t.Errorf("mock text missing question: %q", first.Text)
	}
	if first.Visual != PlaceholderVisual {
		t.Errorf("visual = %q, want placeholder", first.Visual)
	}

	second, err := svc.GenerateExplanation(context.Background(), "What is photosynthesis?", "CBSE")
	if err != nil {
		t.Fatalf("second mock call returned error: %v", err)
	}
	if second.Text != first.Text {
		t.Errorf("mock mode is not deterministic: %q vs %q", second.Text, first.Text)
	}
}

func TestGenerateExplanationGemini(t *testing.T) {
	var gotPath string
	var gotReq geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": "Step 1: light absorption. "},
							{"text": "Step 2: carbon fixation."},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gemini-pro",
	}, nil)

	exp, err := svc.GenerateExplanation(context.Background(), "Explain photosynthesis", "ICSE")
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}

	if gotPath != "/v1beta/models/gemini-pro:generateContent" {
		t.Errorf("request path = %q", gotPath)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request shape: %+v", gotReq)
	}
	prompt := gotReq.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "AI tutor for ICSE students") {
		t.Errorf("prompt missing board framing: %q", prompt)
	}
	if !strings.Contains(prompt, "Explain photosynthesis") {
		t.Errorf("prompt missing question: %q", prompt)
	}

	if exp.Text != "Step 1: light absorption. Step 2: carbon fixation." {
		t.Errorf("text = %q", exp.Text)
	}
	if exp.Source != SourceGemini {
		t.Errorf("source = %q, want %q", exp.Source, SourceGemini)
	}
	if exp.Visual != PlaceholderVisual {
		t.Errorf("visual = %q, want placeholder when no diagram attached", exp.Visual)
	}
}

func TestGenerateExplanationFileDataVisual(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": "See the attached diagram."},
							{"fileData": map[string]interface{}{
								"mimeType": "image/png",
								"fileUri":  "https://files.example.com/diagram.png",
							}},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key"}, nil)

	exp, err := svc.GenerateExplanation(context.Background(), "Draw a cell", "CBSE")
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}
	if exp.Visual != "https://files.example.com/diagram.png" {
		t.Errorf("visual = %q, want file URI from the answer", exp.Visual)
	}
}

func TestGenerateExplanationAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "bad-key"}, nil)

	_, err := svc.GenerateExplanation(context.Background(), "Explain gravity", "CBSE")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.HasPrefix(err.Error(), "ai adapter:") {
		t.Errorf("error not wrapped at adapter level: %v", err)
	}
}

func TestGenerateExplanationTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "secret-key-value"}, nil)

	_, err := svc.GenerateExplanation(context.Background(), "Explain gravity", "CBSE")
	if err == nil {
		t.Fatal("expected error when the endpoint is unreachable")
	}
	if !strings.HasPrefix(err.Error(), "ai adapter: request failed") {
		t.Errorf("error not wrapped at adapter level: %v", err)
	}
	if strings.Contains(err.Error(), "secret-key-value") {
		t.Errorf("transport error leaked the API key: %v", err)
	}
}

func TestGenerateExplanationNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key"}, nil)

	_, err := svc.GenerateExplanation(context.Background(), "Explain gravity", "CBSE")
	if err == nil {
		t.Fatal("expected error when no candidates returned")
	}
	if !strings.Contains(err.Error(), "no content") {
		t.Errorf("error = %v", err)
	}
}

func TestReconfigureSwitchesMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": "live answer"}},
				}},
			},
		})
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{}, nil)

	exp, err := svc.GenerateExplanation(context.Background(), "q", "CBSE")
	if err != nil {
		t.Fatalf("mock call: %v", err)
	}
	if exp.Source != SourceMock {
		t.Fatalf("source before reconfigure = %q", exp.Source)
	}

	svc.Reconfigure(config.AIConfig{BaseURL: server.URL, APIKey: "test-key"})

	exp, err = svc.GenerateExplanation(context.Background(), "q", "CBSE")
	if err != nil {
		t.Fatalf("live call: %v", err)
	}
	if exp.Source != SourceGemini {
		t.Errorf("source after reconfigure = %q, want %q", exp.Source, SourceGemini)
	}
}
