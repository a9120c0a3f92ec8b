package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/policy"
	"crosscheck/internal/ports"
	"crosscheck/internal/risk"
	"crosscheck/internal/schema"
	checksvc "crosscheck/internal/services/checks"
	lookupsvc "crosscheck/internal/services/lookup"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// Server exposes the assessment, single checks, and raw lookups over HTTP.
type Server struct {
	assessor ports.Assessor
	checks   *checksvc.Service
	lookup   *lookupsvc.Service
	policy   policy.Source
}

func New(assessor ports.Assessor, checks *checksvc.Service, lookup *lookupsvc.Service, pol policy.Source) *Server {
	return &Server{assessor: assessor, checks: checks, lookup: lookup, policy: pol}
}

// Routes returns a chi.Router with every handler mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.getHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/shipments/{shipmentID}/assessment", s.postAssessment)
		r.Get("/shipments/{shipmentID}/findings", s.getFindings)
		r.Get("/checks", s.getChecks)
		r.Post("/checks/{check}", s.postCheck)
		r.Post("/aggregate", s.postAggregate)
		r.Post("/translate", s.postTranslate)
		r.Post("/documents/validate", s.postValidateDocument)
		r.Post("/documents/{documentID}/translation", s.postTranslateDocument)
		r.Route("/lookup", func(r chi.Router) {
			r.Get("/hs-codes", s.getHSCodes)
			r.Get("/rulings", s.getRulings)
			r.Get("/market-price", s.getMarketPrice)
			r.Get("/suppliers/{name}", s.getSupplier)
			r.Get("/vessels/{name}", s.getVessel)
		})
	})
	return r
}

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type errorBody struct {
	Error string    `json:"error"`
	Kind  cerr.Kind `json:"kind,omitempty"`
	Code  string    `json:"code,omitempty"`
	Hint  string    `json:"hint,omitempty"`
}

func statusOf(err error) int {
	var he *httpError
	if errors.As(err, &he) {
		return he.code
	}
	switch cerr.KindOf(err) {
	case cerr.KindNotFound:
		return http.StatusNotFound
	case cerr.KindInvalidInput, cerr.KindMissingField:
		return http.StatusBadRequest
	case cerr.KindDependencyUnavailable, cerr.KindTranslationUnavailable:
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		log.Printf("http %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, code, errorBody{Error: err.Error(), Kind: cerr.KindOf(err), Code: cerr.CodeOf(err), Hint: cerr.HintOf(err)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http encode response: %v", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return badRequest("missing body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("missing body")
		}
		return badRequest("invalid body: %v", err)
	}
	return nil
}

func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return badRequest("invalid path parameter %s: %v", name, err)
	}
	return nil
}

func queryParam(r *http.Request, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		return badRequest("invalid query parameter %s: %v", name, err)
	}
	return nil
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// assessmentResponse marks decisions built from an incomplete run as not final.
type assessmentResponse struct {
	ports.Assessment
	Final bool `json:"final"`
}

func (s *Server) postAssessment(w http.ResponseWriter, r *http.Request) {
	var shipmentID string
	if err := pathParam(r, "shipmentID", &shipmentID); err != nil {
		writeError(w, r, err)
		return
	}
	var opts ports.AssessmentOptions
	if err := queryParam(r, "shipment_value", false, &opts.ShipmentValue); err != nil {
		writeError(w, r, err)
		return
	}
	var delayDays *int
	if err := queryParam(r, "delay_days", false, &delayDays); err != nil {
		writeError(w, r, err)
		return
	}
	if delayDays != nil {
		opts.DelayDays = *delayDays
	}
	if opts.DelayDays < 0 || (opts.ShipmentValue != nil && *opts.ShipmentValue < 0) {
		writeError(w, r, badRequest("shipment_value and delay_days must not be negative"))
		return
	}
	a, err := s.assessor.Assess(r.Context(), shipmentID, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assessmentResponse{Assessment: a, Final: !a.Decision.Partial})
}

func (s *Server) getFindings(w http.ResponseWriter, r *http.Request) {
	var shipmentID string
	if err := pathParam(r, "shipmentID", &shipmentID); err != nil {
		writeError(w, r, err)
		return
	}
	findings, err := s.assessor.Findings(r.Context(), shipmentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shipment_id": shipmentID, "findings": findings})
}

func (s *Server) getChecks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"checks": checksvc.Names()})
}

func (s *Server) postCheck(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := pathParam(r, "check", &name); err != nil {
		writeError(w, r, err)
		return
	}
	var req checksvc.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := s.checks.Run(r.Context(), name, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type aggregateRequest struct {
	ShipmentID    string           `json:"shipment_id"`
	ShipmentValue float64          `json:"shipment_value"`
	DelayDays     int              `json:"delay_days"`
	Partial       bool             `json:"partial"`
	Findings      []domain.Finding `json:"findings"`
}

func (s *Server) postAggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ShipmentValue < 0 || req.DelayDays < 0 {
		writeError(w, r, badRequest("shipment_value and delay_days must not be negative"))
		return
	}
	in := risk.Input{ShipmentID: req.ShipmentID, ShipmentValue: req.ShipmentValue, DelayDays: req.DelayDays, Partial: req.Partial}
	writeJSON(w, http.StatusOK, risk.Aggregate(req.Findings, in, s.policy.Current()))
}

type translateRequest struct {
	Text           string   `json:"text"`
	SourceLanguage string   `json:"source_language"`
	Fields         []string `json:"fields"`
}

func (s *Server) postTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Text == "" {
		writeError(w, r, badRequest("text is required"))
		return
	}
	t, err := s.checks.Translate(r.Context(), req.Text, req.SourceLanguage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) postTranslateDocument(w http.ResponseWriter, r *http.Request) {
	var documentID string
	if err := pathParam(r, "documentID", &documentID); err != nil {
		writeError(w, r, err)
		return
	}
	var req translateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, r, badRequest("fields is required"))
		return
	}
	out, err := s.checks.TranslateDocument(r.Context(), documentID, req.Fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"document_id": documentID, "translations": out})
}

func (s *Server) postValidateDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, r, badRequest("read body: %v", err))
		return
	}
	if err := schema.ValidateDocument(data); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

func (s *Server) getHSCodes(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := queryParam(r, "q", true, &q); err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := s.lookup.HSCodes(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "matches": matches})
}

func (s *Server) getRulings(w http.ResponseWriter, r *http.Request) {
	var keywords []string
	if err := queryParam(r, "keyword", true, &keywords); err != nil {
		writeError(w, r, err)
		return
	}
	rulings, err := s.lookup.CBPRulings(r.Context(), keywords)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords, "rulings": rulings})
}

func (s *Server) getMarketPrice(w http.ResponseWriter, r *http.Request) {
	var product string
	if err := queryParam(r, "product", true, &product); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.lookup.MarketPrice(r.Context(), product)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := pathParam(r, "name", &name); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.lookup.Supplier(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getVessel(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := pathParam(r, "name", &name); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.lookup.Vessel(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
