package daemon

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shubhamranswal/TechGuru/internal/agent"
	"github.com/shubhamranswal/TechGuru/internal/review"
	"github.com/shubhamranswal/TechGuru/internal/scaffold"
	"github.com/shubhamranswal/TechGuru/internal/tools"
)

type codeRequest struct {
	Source   string `json:"source"`
	Language string `json:"language"`
	NumTests int    `json:"num_tests"`
}

func (s *Server) explainHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCodeRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result := s.agent.Explain(r.Context(), req.Source, req.Language)
	s.metrics.RecordTask(string(agent.TaskExplain), mapOutcome(result), time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) generateTestsHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCodeRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	text := s.agent.GenerateTests(r.Context(), req.Source, req.NumTests, req.Language)
	outcome := "ok"
	if strings.HasPrefix(text, agent.ErrTextPrefix) {
		outcome = "error_text"
	}
	s.metrics.RecordTask(string(agent.TaskGenerateTests), outcome, time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{"tests": text})
}

func (s *Server) bugHuntHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCodeRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result := s.agent.BugHunt(r.Context(), req.Source)
	s.metrics.RecordTask(string(agent.TaskBugHunt), mapOutcome(result), time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) modelInfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"offline": s.agent.Offline(),
		"candidates": map[string]any{
			string(agent.TaskExplain):       s.agent.Candidates(agent.TaskExplain),
			string(agent.TaskGenerateTests): s.agent.Candidates(agent.TaskGenerateTests),
			string(agent.TaskBugHunt):       s.agent.Candidates(agent.TaskBugHunt),
		},
	})
}

type scaffoldRequest struct {
	ProjectName string `json:"project_name"`
	Language    string `json:"language"`
	DryRun      bool   `json:"dry_run"`
}

func (s *Server) scaffoldHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req scaffoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	files := scaffold.Files(req.ProjectName, req.Language)
	if !req.DryRun {
		if err := scaffold.WriteAll(s.tools.FS, files); err != nil {
			s.logger.Warn("scaffold write failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"files":   files,
		"paths":   paths,
		"written": !req.DryRun,
	})
}

type runTestsRequest struct {
	ProjectRoot string `json:"project_root"`
}

func (s *Server) runTestsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req runTestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	report, err := s.tools.Tests.Run(r.Context(), req.ProjectRoot)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type applyPatchRequest struct {
	Diff string `json:"diff"`
}

func (s *Server) applyPatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req applyPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := tools.ApplyUnifiedDiff(s.tools.FS, req.Diff); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": true})
}

type reviewAddRequest struct {
	Concept string `json:"concept"`
	Notes   string `json:"notes"`
}

func (s *Server) reviewHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req reviewAddRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Concept) == "" {
			writeError(w, http.StatusBadRequest, "concept is required")
			return
		}
		item, err := s.reviews.Add(req.Concept, req.Notes, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodGet:
		var (
			items []*review.Item
			err   error
		)
		if r.URL.Query().Get("due") == "true" {
			items, err = s.reviews.Due(time.Now().UTC())
		} else {
			items, err = s.reviews.List()
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []*review.Item{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

type reviewGradeRequest struct {
	ID      string `json:"id"`
	Quality int    `json:"quality"`
}

func (s *Server) reviewGradeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req reviewGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.reviews.Grade(req.ID, review.Quality(req.Quality), time.Now().UTC())
	if err != nil {
		status := http.StatusInternalServerError
		if err == review.ErrNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) decodeCodeRequest(w http.ResponseWriter, r *http.Request) (codeRequest, bool) {
	var req codeRequest
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Source) == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return req, false
	}
	return req, true
}

// mapOutcome reports error_text when a structured result carries the error
// marker anywhere inside it. Degraded fallback records still count as ok.
func mapOutcome(result map[string]any) string {
	raw, err := json.Marshal(result)
	if err == nil && strings.Contains(string(raw), agent.ErrTextPrefix) {
		return "error_text"
	}
	return "ok"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
