package service

import (
	"bytes"
	"context"
	"eduai_backend/internal/config"
	"eduai_backend/internal/model"
	"eduai_backend/pkg/logger"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-pro"

	// PlaceholderVisual is returned when an answer carries no usable diagram.
	PlaceholderVisual = "https://via.placeholder.com/400x300?text=Diagram"

	// SourceGemini and SourceMock tag where an explanation came from.
	SourceGemini = "gemini"
	SourceMock   = "mock"
)

// Explanation is the adapter's output: tutoring text, an optional diagram URI
// and the producing source.
type Explanation struct {
	Text   string
	Visual string
	Source string
}

// Generator is the AI Adapter contract consumed by the query pipeline.
type Generator interface {
	GenerateExplanation(ctx context.Context, question string, board string) (*Explanation, error)
}

// AIService wraps the Gemini generateContent API. Without an API key it
// answers deterministically in mock mode so the rest of the pipeline can run
// with no network access.
type AIService struct {
	mu         sync.RWMutex
	cfg        config.AIConfig
	httpClient *http.Client
	storage    *StorageService
}

var _ Generator = (*AIService)(nil)

func NewAIService(cfg config.AIConfig, storage *StorageService) *AIService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	return &AIService{
		cfg:        cfg,
		httpClient: &http.Client{},
		storage:    storage,
	}
}

// Reconfigure swaps credentials and model at runtime (config hot reload).
func (s *AIService) Reconfigure(cfg config.AIConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *AIService) tutorPrompt(question string, board string) string {
	return fmt.Sprintf("You are an AI tutor for %s students. "+
		"Provide a detailed, step-by-step explanation for the following question: %s. "+
		"Include relevant diagrams or visuals if applicable.", board, question)
}

// GenerateExplanation asks the model once, no retries. Any transport, status
// or decode failure comes back as a single adapter-level error.
func (s *AIService) GenerateExplanation(ctx context.Context, question string, board string) (*Explanation, error) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	if cfg.APIKey == "" {
		return s.mockExplanation(question, board), nil
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: s.tutorPrompt(question, board)}},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ai adapter: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", cfg.BaseURL, cfg.Model, cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ai adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// url.Error would echo the key-bearing request URL.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("ai adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ai adapter: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai adapter: gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("ai adapter: decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("ai adapter: gemini returned no content")
	}

	parts := result.Candidates[0].Content.Parts

	var text string
	for _, p := range parts {
		text += p.Text
	}
	if text == "" {
		return nil, fmt.Errorf("ai adapter: gemini returned no text")
	}

	return &Explanation{
		Text:   text,
		Visual: s.extractVisual(ctx, parts),
		Source: SourceGemini,
	}, nil
}

// extractVisual scans the content parts for an attached diagram. A file
// reference passes through as-is; inline image bytes are persisted through
// the storage service. Answers without a diagram get the placeholder.
func (s *AIService) extractVisual(ctx context.Context, parts []geminiPart) string {
	for _, p := range parts {
		if p.FileData != nil && p.FileData.FileURI != "" {
			return p.FileData.FileURI
		}
	}

	if s.storage != nil {
		for _, p := range parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				logger.Log.Warn("Discarding undecodable inline diagram", zap.Error(err))
				continue
			}
			stored, err := s.storage.SaveDiagram(ctx, model.GenerateUUID(), data, p.InlineData.MimeType)
			if err != nil {
				logger.Log.Warn("Failed to store inline diagram", zap.Error(err))
				continue
			}
			return stored
		}
	}

	return PlaceholderVisual
}

func (s *AIService) mockExplanation(question string, board string) *Explanation {
	text := fmt.Sprintf("[EduAI mock mode] As an AI tutor for %s students, here is a "+
		"step-by-step explanation for: %s. Configure a Gemini API key to receive live answers.",
		board, question)
	return &Explanation{
		Text:   text,
		Visual: PlaceholderVisual,
		Source: SourceMock,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	FileData   *geminiFileData   `json:"fileData,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
