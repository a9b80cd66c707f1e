package internal

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// Server is the HTTP transport: a thin JSON layer over the Service. It holds
// no state of its own and maps the service's error taxonomy onto status
// codes: validation 400, unknown id 404, index unavailable 503, the rest 500.
type Server struct {
	svc    *Service
	logger *log.Logger
}

func NewServer(svc *Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{svc: svc, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /memory", s.handleCreate)
	mux.HandleFunc("GET /memory", s.handleList)
	mux.HandleFunc("GET /memory/search", s.handleSearch)
	mux.HandleFunc("GET /memory/stats/collection", s.handleStats)
	mux.HandleFunc("GET /memory/{id}", s.handleGet)
	mux.HandleFunc("PATCH /memory/{id}", s.handleUpdate)
	return mux
}

type createResponse struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
	Indexed  bool   `json:"indexed"`
	Message  string `json:"message"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var entry MemoryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.svc.Create(r.Context(), &entry)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	message := "memory saved with vector indexing"
	if !res.Indexed {
		message = "memory saved (file only)"
	}
	s.writeJSON(w, http.StatusCreated, createResponse{
		ID:       res.ID,
		FilePath: res.FilePath,
		Indexed:  res.Indexed,
		Message:  message,
	})
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("query")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	opts := SearchOptions{
		Project: q.Get("project"),
		Tags:    parseTags(q.Get("tags")),
		TopK:    3,
	}
	if v := q.Get("top"); v != "" {
		top, err := strconv.Atoi(v)
		if err != nil || top < 1 {
			s.writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		opts.TopK = top
	}

	results, err := s.svc.Search(r.Context(), query, opts)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if results == nil {
		results = []SearchResult{}
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results, Total: len(results)})
}

type getResponse struct {
	ID       string      `json:"id"`
	FilePath string      `json:"file_path"`
	Entry    MemoryEntry `json:"entry"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, filePath, err := s.svc.Get(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, getResponse{ID: id, FilePath: filePath, Entry: *entry})
}

type updateRequest struct {
	Outdated *bool `json:"outdated"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Outdated == nil {
		s.writeError(w, http.StatusBadRequest, "outdated field is required")
		return
	}

	if err := s.svc.UpdateStatus(r.Context(), id, *req.Outdated); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "memory " + id + " updated",
	})
}

type listResponse struct {
	Memories      []MemorySummary `json:"memories"`
	Total         int             `json:"total"`
	ProjectFilter string          `json:"project_filter,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 20
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	project := q.Get("project")
	memories, err := s.svc.List(project, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse{
		Memories:      memories,
		Total:         len(memories),
		ProjectFilter: project,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidEntry):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoIndex):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Printf("http: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}
