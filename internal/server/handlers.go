package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/leapstack-labs/sheetscript/internal/job"
	"github.com/leapstack-labs/sheetscript/internal/logging"
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// ScriptRequest is the body of POST /v1/scripts.
type ScriptRequest struct {
	Dialect        string          `json:"dialect"`
	Operation      string          `json:"operation"`
	Target         string          `json:"target"`
	ConditionField string          `json:"conditionField,omitempty"`
	UpdateFields   []string        `json:"updateFields,omitempty"`
	HeaderRows     int             `json:"headerRows,omitempty"`
	Rows           [][]string      `json:"rows"`
	FieldMappings  script.Mappings `json:"fieldMappings"`
}

// ScriptResponse is the result of POST /v1/scripts.
type ScriptResponse struct {
	ID         string        `json:"id"`
	Dialect    string        `json:"dialect"`
	Script     string        `json:"script"`
	Rows       int           `json:"rows"`
	Statements int           `json:"statements"`
	Skipped    []script.Skip `json:"skipped"`
}

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Family      string   `json:"family"`
	FileExt     string   `json:"fileExt"`
	Description string   `json:"description,omitempty"`
}

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Problems  []string `json:"problems,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	all := dialect.All()
	out := make([]DialectInfo, 0, len(all))
	for _, d := range all {
		out = append(out, DialectInfo{
			Name:        d.Name,
			Aliases:     d.Aliases,
			Family:      d.Family.String(),
			FileExt:     d.FileExt,
			Description: d.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScripts(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	var body ScriptRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit), nil)
			return
		}
		s.respondError(w, r, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err), nil)
		return
	}

	d, req, problems := s.buildRequest(body)
	if len(problems) > 0 {
		s.respondError(w, r, http.StatusBadRequest, errors.New("validation failed"), problems)
		return
	}

	res, err := script.New(script.WithLogger(logging.FromContext(r.Context(), s.logger))).Generate(d, req)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err, nil)
		return
	}

	skipped := res.Skipped
	if skipped == nil {
		skipped = []script.Skip{}
	}
	writeJSON(w, http.StatusOK, ScriptResponse{
		ID:         uuid.NewString(),
		Dialect:    d.Name,
		Script:     res.Script,
		Rows:       res.Rows,
		Statements: res.Statements,
		Skipped:    skipped,
	})
}

// buildRequest validates body and converts it, collecting every problem.
func (s *Server) buildRequest(body ScriptRequest) (*dialect.Dialect, script.Request, []string) {
	var problems []string

	d, err := job.DialectFor(body.Dialect, s.cfg.DateConstructor)
	if err != nil {
		problems = append(problems, "dialect: "+err.Error())
	}
	kind, kindErr := script.ParseKind(body.Operation)
	if kindErr != nil {
		problems = append(problems, "operation: "+kindErr.Error())
	}
	if body.Target == "" {
		problems = append(problems, "target: required")
	}
	if body.HeaderRows < 0 {
		problems = append(problems, "headerRows: must not be negative")
	}
	if len(body.FieldMappings) == 0 {
		problems = append(problems, "fieldMappings: at least one mapping is required")
	}
	if kindErr == nil && kind.NeedsCondition() && body.ConditionField == "" {
		problems = append(problems, fmt.Sprintf("conditionField: required for %s", kind))
	}
	if kindErr == nil && kind == script.KindUpdate && len(body.UpdateFields) == 0 {
		problems = append(problems, "updateFields: required for update")
	}

	if s.cfg.StrictIdentifiers {
		check := func(what, name string) {
			if name != "" && !job.ValidIdentifier(name) {
				problems = append(problems, fmt.Sprintf("%s: invalid identifier %q", what, name))
			}
		}
		check("target", body.Target)
		check("conditionField", body.ConditionField)
		for _, f := range body.UpdateFields {
			check("updateFields", f)
		}
		for _, f := range script.Fields(body.FieldMappings) {
			check("fieldMappings."+f.Key, f.DBField)
		}
	}

	return d, script.Request{
		Rows:           body.Rows,
		Mappings:       body.FieldMappings,
		Kind:           kind,
		ConditionField: body.ConditionField,
		UpdateFields:   body.UpdateFields,
		Target:         body.Target,
		HeaderRows:     body.HeaderRows,
	}, problems
}

// respondError logs err with the request ID and writes a JSON error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, err error, problems []string) {
	reqID := middleware.GetReqID(r.Context())
	logging.FromContext(r.Context(), s.logger).Warn("request error",
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
		"problems", strings.Join(problems, "; "),
	)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Problems: problems, RequestID: reqID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
