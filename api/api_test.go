package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"goose-search/config"
	"goose-search/engine"
	"goose-search/movegen"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(&config.Config{
		Engine: config.EngineConfig{Backend: movegen.DefaultBackend, DefaultDepth: 2},
		HTTP:   config.HTTPConfig{Addr: ":0", MaxMoveTime: 200 * time.Millisecond},
	})
}

func postSearch(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSearchDefaultDepth(t *testing.T) {
	resp := postSearch(t, newTestRouter(), gin.H{"moves": []string{"e2e4", "e7e5"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out SearchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Depth != 2 || out.BestMove == "" || out.BestMove == "0000" || len(out.PV) == 0 {
		t.Fatalf("unexpected response %+v", out)
	}
	if out.PV[0] != out.BestMove {
		t.Fatalf("pv should start with the best move: %+v", out)
	}
}

func TestSearchMateInOne(t *testing.T) {
	resp := postSearch(t, newTestRouter(), gin.H{"fen": "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1", "depth": 2, "backend": "goosemg"})
	var out SearchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Score != engine.MaxScore-1 {
		t.Fatalf("expected a mate score, got %+v", out)
	}
}

func TestSearchMoveTimeIsCapped(t *testing.T) {
	start := time.Now()
	resp := postSearch(t, newTestRouter(), gin.H{"movetime_ms": 60000})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("movetime was not capped, took %v", elapsed)
	}
}

func TestSearchRejectsBadRequests(t *testing.T) {
	router := newTestRouter()
	for name, body := range map[string]gin.H{
		"infinite":      {"infinite": true},
		"illegal move":  {"moves": []string{"e2e5"}},
		"bad fen":       {"fen": "not a fen"},
		"bad backend":   {"backend": "stockfish"},
		"negative time": {"movetime_ms": -1},
	} {
		if resp := postSearch(t, router, body); resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, resp.Code)
		}
	}
}

func TestSearchTerminalPosition(t *testing.T) {
	resp := postSearch(t, newTestRouter(), gin.H{"fen": "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"})
	var out SearchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.BestMove != "0000" || out.Score != engine.MinScore {
		t.Fatalf("expected the null move, got %+v", out)
	}
}
