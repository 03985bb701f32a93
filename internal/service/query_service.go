package service

import (
	"context"
	"eduai_backend/internal/model"
	"eduai_backend/internal/util"
	"eduai_backend/pkg/monitoring"
	"strings"
)

// QueryStore is the persistence surface the query pipeline needs.
// *repository.QueryRepository satisfies it.
type QueryStore interface {
	Create(record *model.QueryRecord) error
	FindByUser(userID uint) ([]model.QueryRecord, error)
	DeleteByUser(userID uint) (int64, error)
}

// QueryService drives the submission/history pipeline: validate, ask the
// adapter once, persist, read back. No caching of answers, no dedup, no
// retries.
type QueryService struct {
	store     QueryStore
	generator Generator
}

func NewQueryService(store QueryStore, generator Generator) *QueryService {
	return &QueryService{
		store:     store,
		generator: generator,
	}
}

type AskResponse struct {
	Text   string `json:"text"`
	Visual string `json:"visual,omitempty"`
}

// Ask processes one student question. Validation failures leave the store
// untouched; a single insert after a successful adapter call means no partial
// record can survive a failure.
func (s *QueryService) Ask(ctx context.Context, userID uint, question string, board string) (*AskResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" || board == "" {
		return nil, util.ErrEmptyQuestion
	}
	if !model.Board(board).Valid() {
		return nil, util.ErrUnknownBoard
	}

	explanation, err := s.generator.GenerateExplanation(ctx, question, board)
	if err != nil {
		return nil, err
	}

	record := &model.QueryRecord{
		UserID:   userID,
		Board:    board,
		Question: question,
		Answer:   explanation.Text,
		Visual:   explanation.Visual,
	}
	if err := s.store.Create(record); err != nil {
		return nil, err
	}

	monitoring.QueryCounter.WithLabelValues(board, explanation.Source).Inc()

	return &AskResponse{
		Text:   explanation.Text,
		Visual: explanation.Visual,
	}, nil
}

// History returns the caller's records newest first, never anyone else's.
func (s *QueryService) History(userID uint) ([]model.QueryRecord, error) {
	return s.store.FindByUser(userID)
}

// ClearHistory deletes all of the caller's records and reports the count.
func (s *QueryService) ClearHistory(userID uint) (int64, error) {
	return s.store.DeleteByUser(userID)
}
