// Package api exposes the query pipeline over HTTP for callers that render
// their own interface.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/rusca02/shpe-assistant/answer"
	"github.com/rusca02/shpe-assistant/index"
)

// Server serves questions against the index loaded at startup.
type Server struct {
	svc     *answer.Service
	logger  *log.Logger
	handler http.Handler
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type askRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
}

type askResponse struct {
	Answer       string      `json:"answer"`
	QueryTokens  int         `json:"queryTokens"`
	AnswerTokens int         `json:"answerTokens"`
	Sources      []askSource `json:"sources"`
}

type askSource struct {
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunkIndex"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet"`
}

// New constructs a Server around the startup-built query service.
func New(svc *answer.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{svc: svc, logger: logger}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/ask", s.handleAsk)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("question is required"))
		return
	}

	ans, results, err := s.svc.Ask(r.Context(), req.Question, req.K)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("answer question: %w", err))
		return
	}

	s.writeJSON(w, http.StatusOK, transformAnswer(ans, results))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed, use %s", allowed))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Printf("api error (%d): %v", status, err)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}

	return nil
}

func transformAnswer(ans answer.Answer, results []index.SearchResult) askResponse {
	resp := askResponse{
		Answer:       ans.Text,
		QueryTokens:  ans.QueryTokens,
		AnswerTokens: ans.AnswerTokens,
	}
	for _, result := range results {
		snippet := result.Chunk.Content
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		resp.Sources = append(resp.Sources, askSource{
			Source:     result.Chunk.Source,
			ChunkIndex: result.Chunk.Index,
			Score:      result.Score,
			Snippet:    snippet,
		})
	}
	return resp
}
