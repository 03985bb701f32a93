// Package client is the Go client for the EduAI backend: board selection,
// question submission and the history panel flow. A Session is explicit
// state, set by Login and cleared by Logout; nothing is kept in ambient
// storage.
package client

import (
	"bytes"
	"context"
	"eduai_backend/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// Session carries the authenticated token and the currently selected board.
type Session struct {
	Token string
	Board model.Board
}

// Response is a generated answer as returned by the query endpoint.
type Response struct {
	Text   string `json:"text"`
	Visual string `json:"visual"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	session *Session
	history []model.QueryRecord
	asking  bool
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Login authenticates and initializes the session with the default board.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return remoteError(resp)
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if envelope.Data.Token == "" {
		return errors.New("login response carried no token")
	}

	c.mu.Lock()
	c.session = &Session{Token: envelope.Data.Token, Board: model.CBSE}
	c.history = nil
	c.mu.Unlock()
	return nil
}

// Logout drops the session and any cached history.
func (c *Client) Logout() {
	c.mu.Lock()
	c.session = nil
	c.history = nil
	c.mu.Unlock()
}

// SelectBoard switches the shared board state used by submissions.
func (c *Client) SelectBoard(board model.Board) error {
	if !board.Valid() {
		return fmt.Errorf("unknown board %q", board)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotLoggedIn
	}
	c.session.Board = board
	return nil
}

func (c *Client) Board() (model.Board, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", ErrNotLoggedIn
	}
	return c.session.Board, nil
}

// Ask submits the question against the currently selected board. While a
// call is outstanding further submissions are refused, mirroring the
// disabled submit control.
func (c *Client) Ask(ctx context.Context, question string) (*Response, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	if c.asking {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	c.asking = true
	token := c.session.Token
	board := c.session.Board
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.asking = false
		c.mu.Unlock()
	}()

	body, err := json.Marshal(map[string]string{"query": question, "board": string(board)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the caller's records, newest first, and caches them for
// local filtering.
func (c *Client) History(ctx context.Context) ([]model.QueryRecord, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	token := c.session.Token
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/history", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	var records []model.QueryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.history = records
	c.mu.Unlock()
	return records, nil
}

// FilterHistory narrows the cached records by a case-insensitive match on
// the question text. An empty term returns everything cached.
func (c *Client) FilterHistory(term string) []model.QueryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	if term == "" {
		return append([]model.QueryRecord(nil), c.history...)
	}

	term = strings.ToLower(term)
	var filtered []model.QueryRecord
	for _, rec := range c.history {
		if strings.Contains(strings.ToLower(rec.Question), term) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// ClearHistory asks the server to delete everything and empties the local
// cache only after the server confirms.
func (c *Client) ClearHistory(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return 0, ErrNotLoggedIn
	}
	token := c.session.Token
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/history", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, remoteError(resp)
	}

	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
	return out.Deleted, nil
}

// remoteError turns a non-200 reply into a single displayable message, the
// inline error the UI shows next to its retry affordance.
func remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var shape struct {
		Error   string `json:"error"`
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &shape); err == nil {
		switch {
		case shape.Error != "":
			return fmt.Errorf("server: %s", shape.Error)
		case shape.Msg != "":
			return fmt.Errorf("server: %s", shape.Msg)
		case shape.Message != "":
			return fmt.Errorf("server: %s", shape.Message)
		}
	}
	return fmt.Errorf("server returned status %d", resp.StatusCode)
}
