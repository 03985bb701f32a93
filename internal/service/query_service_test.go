package service

import (
	"context"
	"eduai_backend/internal/model"
	"eduai_backend/internal/util"
	"errors"
	"testing"
)

type stubStore struct {
	created   []model.QueryRecord
	createErr error
	records   []model.QueryRecord
	findErr   error
	deleted   int64
	deleteErr error
}

var _ QueryStore = (*stubStore)(nil)

func (s *stubStore) Create(record *model.QueryRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *record)
	return nil
}

func (s *stubStore) FindByUser(userID uint) ([]model.QueryRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.records, nil
}

func (s *stubStore) DeleteByUser(userID uint) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	return s.deleted, nil
}

type stubGenerator struct {
	explanation *Explanation
	err         error
	calls       int
}

var _ Generator = (*stubGenerator)(nil)

func (g *stubGenerator) GenerateExplanation(ctx context.Context, question, board string) (*Explanation, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.explanation, nil
}

func TestAskPersistsRecord(t *testing.T) {
	store := &stubStore{}
	gen := &stubGenerator{explanation: &Explanation{
		Text:   "A detailed explanation.",
		Visual: PlaceholderVisual,
		Source: SourceMock,
	}}
	svc := NewQueryService(store, gen)

	resp, err := svc.Ask(context.Background(), 7, "What is osmosis?", "CBSE")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.Text != "A detailed explanation." {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Visual != PlaceholderVisual {
		t.Errorf("visual = %q", resp.Visual)
	}

	if gen.calls != 1 {
		t.Errorf("generator called %d times, want exactly one call", gen.calls)
	}
	if len(store.created) != 1 {
		t.Fatalf("store holds %d records, want 1", len(store.created))
	}

	rec := store.created[0]
	if rec.UserID != 7 {
		t.Errorf("record userID = %d", rec.UserID)
	}
	if rec.Question != "What is osmosis?" {
		t.Errorf("record question = %q, want verbatim question", rec.Question)
	}
	if rec.Board != "CBSE" {
		t.Errorf("record board = %q", rec.Board)
	}
	if rec.Answer != "A detailed explanation." {
		t.Errorf("record answer = %q, want verbatim answer", rec.Answer)
	}
	if rec.Visual != PlaceholderVisual {
		t.Errorf("record visual = %q", rec.Visual)
	}
}

func TestAskValidation(t *testing.T) {
	cases := []struct {
		name     string
		question string
		board    string
		wantErr  error
	}{
		{"empty question", "", "CBSE", util.ErrEmptyQuestion},
		{"whitespace question", "   ", "CBSE", util.ErrEmptyQuestion},
		{"empty board", "What is osmosis?", "", util.ErrEmptyQuestion},
		{"unknown board", "What is osmosis?", "Cambridge", util.ErrUnknownBoard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			gen := &stubGenerator{explanation: &Explanation{Text: "x", Source: SourceMock}}
			svc := NewQueryService(store, gen)

			_, err := svc.Ask(context.Background(), 1, tc.question, tc.board)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if gen.calls != 0 {
				t.Errorf("generator called on invalid input")
			}
			if len(store.created) != 0 {
				t.Errorf("store written on invalid input")
			}
		})
	}
}

func TestAskGeneratorFailureDoesNotPersist(t *testing.T) {
	store := &stubStore{}
	gen := &stubGenerator{err: errors.New("ai adapter: gemini API error (503)")}
	svc := NewQueryService(store, gen)

	_, err := svc.Ask(context.Background(), 1, "What is osmosis?", "ICSE")
	if err == nil {
		t.Fatal("expected generator error to propagate")
	}
	if len(store.created) != 0 {
		t.Errorf("record persisted despite adapter failure")
	}
}

func TestAskStoreFailure(t *testing.T) {
	store := &stubStore{createErr: errors.New("connection refused")}
	gen := &stubGenerator{explanation: &Explanation{Text: "x", Source: SourceMock}}
	svc := NewQueryService(store, gen)

	_, err := svc.Ask(context.Background(), 1, "What is osmosis?", "ICSE")
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestAskDuplicateSubmissionsCreateDistinctRecords(t *testing.T) {
	store := &stubStore{}
	gen := &stubGenerator{explanation: &Explanation{Text: "x", Source: SourceMock}}
	svc := NewQueryService(store, gen)

	for i := 0; i < 2; i++ {
		if _, err := svc.Ask(context.Background(), 1, "Same question", "CBSE"); err != nil {
			t.Fatalf("Ask #%d: %v", i+1, err)
		}
	}

	if len(store.created) != 2 {
		t.Errorf("store holds %d records, want one per submission", len(store.created))
	}
}

func TestHistoryPassThrough(t *testing.T) {
	store := &stubStore{records: []model.QueryRecord{
		{ID: 2, UserID: 1, Question: "newer"},
		{ID: 1, UserID: 1, Question: "older"},
	}}
	svc := NewQueryService(store, &stubGenerator{})

	records, err := svc.History(1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 2 || records[0].Question != "newer" {
		t.Errorf("history order not preserved: %+v", records)
	}
}

func TestClearHistoryReportsCount(t *testing.T) {
	store := &stubStore{deleted: 3}
	svc := NewQueryService(store, &stubGenerator{})

	deleted, err := svc.ClearHistory(1)
	if err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
}
