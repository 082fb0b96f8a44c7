package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/webcheck/docs/swagger" // registers the swagger doc
	"github.com/raysh454/webcheck/internal/app"
	"github.com/raysh454/webcheck/internal/history"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
)

// Server is the HTTP + WebSocket API surface for webcheck.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
}

// NewServer creates a Server on top of an existing orchestrator.
func NewServer(cfg Config, orch *app.Orchestrator) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: nil orchestrator")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       chi.NewRouter(),
		logger:       logger.With(logging.Field{Key: "component", Value: "server"}),
		upgrader: websocket.Upgrader{
			// TODO: restrict origins once the API is exposed beyond localhost
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/checks", s.optionsHandler("GET"))
	r.Options("/checks/{id}", s.optionsHandler("GET"))
	r.Options("/checks/{id}/results", s.optionsHandler("GET"))
	r.Options("/checks/{id}/transitions", s.optionsHandler("GET"))
	r.Options("/checks/{id}/diff", s.optionsHandler("GET"))
	r.Options("/runs", s.optionsHandler("GET, POST"))
	r.Options("/runs/{runID}", s.optionsHandler("GET"))

	// Checks and their history
	r.Get("/checks", s.handleListChecks)
	r.Get("/checks/{id}", s.handleGetCheck)
	r.Get("/checks/{id}/results", s.handleCheckResults)
	r.Get("/checks/{id}/transitions", s.handleCheckTransitions)
	r.Get("/checks/{id}/diff", s.handleCheckDiff)

	// Runs
	r.Post("/runs", s.handleStartRun)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)

	// Live results
	r.Get("/ws/results", s.handleResultsWS)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

// Checks

// handleListChecks godoc
// @Summary List configured checks
// @Tags checks
// @Produce json
// @Success 200 {array} model.Check
// @Router /checks [get]
func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	checks := s.orchestrator.Checks()
	s.logger.Info("listed checks", logging.Field{Key: "count", Value: len(checks)})
	writeJSON(w, http.StatusOK, checks)
}

// handleGetCheck godoc
// @Summary Get one check
// @Tags checks
// @Produce json
// @Param id path string true "Check id"
// @Success 200 {object} model.Check
// @Failure 404 {object} ErrorResponse
// @Router /checks/{id} [get]
func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	check, ok := s.lookupCheck(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// handleCheckResults godoc
// @Summary List stored results of a check
// @Tags checks
// @Produce json
// @Param id path string true "Check id"
// @Success 200 {array} model.Result
// @Router /checks/{id}/results [get]
func (s *Server) handleCheckResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	results := s.orchestrator.Store().ByCheck(id)
	if results == nil {
		results = []model.Result{}
	}
	s.logger.Info("listed results", logging.Field{Key: "check", Value: id}, logging.Field{Key: "count", Value: len(results)})
	writeJSON(w, http.StatusOK, results)
}

// handleCheckTransitions godoc
// @Summary List points where a check started or stopped matching
// @Tags checks
// @Produce json
// @Param id path string true "Check id"
// @Success 200 {array} history.Transition
// @Router /checks/{id}/transitions [get]
func (s *Server) handleCheckTransitions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	transitions := history.Transitions(s.orchestrator.Store().ByCheck(id))
	if transitions == nil {
		transitions = []history.Transition{}
	}
	writeJSON(w, http.StatusOK, transitions)
}

// handleCheckDiff godoc
// @Summary Diff the extracted text of the two latest successful results
// @Tags checks
// @Produce json
// @Param id path string true "Check id"
// @Success 200 {object} history.Diff
// @Failure 404 {object} ErrorResponse
// @Router /checks/{id}/diff [get]
func (s *Server) handleCheckDiff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	base, head, ok := history.LatestSuccessful(s.orchestrator.Store().ByCheck(id))
	if !ok {
		writeError(w, http.StatusNotFound, "fewer than two successful results")
		return
	}
	writeJSON(w, http.StatusOK, history.TextDiff(base, head))
}

func (s *Server) lookupCheck(w http.ResponseWriter, r *http.Request) (model.Check, bool) {
	id := chi.URLParam(r, "id")
	check, ok := s.orchestrator.Check(id)
	if !ok {
		s.logger.Warn("check not found", logging.Field{Key: "check", Value: id})
		writeError(w, http.StatusNotFound, "check not found")
	}
	return check, ok
}

// Runs

// handleStartRun godoc
// @Summary Run checks and save the results
// @Tags runs
// @Accept json
// @Produce json
// @Param request body StartRunRequest false "Subset of check ids"
// @Success 200 {object} app.Run
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /runs [post]
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var body StartRunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			s.logger.Warn("decoding start run body", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	// A client hanging up must not turn the pending checks into canceled records.
	run, err := s.orchestrator.RunIDs(context.WithoutCancel(r.Context()), body.Checks)
	if err != nil {
		s.logger.Warn("starting run", logging.Field{Key: "error", Value: err.Error()})
		status := http.StatusInternalServerError
		if errors.Is(err, app.ErrUnknownCheck) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	if err := s.orchestrator.Save(); err != nil {
		s.logger.Error("saving results", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("finished run", logging.Field{Key: "run_id", Value: run.ID}, logging.Field{Key: "failed", Value: run.Failed})
	writeJSON(w, http.StatusOK, run)
}

// handleListRuns godoc
// @Summary List runs started since the server came up
// @Tags runs
// @Produce json
// @Success 200 {array} app.Run
// @Router /runs [get]
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.orchestrator.ListRuns()
	s.logger.Info("listed runs", logging.Field{Key: "count", Value: len(runs)})
	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun godoc
// @Summary Get a run
// @Tags runs
// @Produce json
// @Param runID path string true "Run id"
// @Success 200 {object} app.Run
// @Failure 404 {object} ErrorResponse
// @Router /runs/{runID} [get]
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run := s.orchestrator.GetRun(runID)
	if run == nil {
		s.logger.Warn("getting run: not found", logging.Field{Key: "run_id", Value: runID})
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// WebSockets

// handleResultsWS streams every appended result as one JSON message until
// the client goes away.
func (s *Server) handleResultsWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no record appended after
	// the client connects is missed.
	results, cancel := s.orchestrator.Subscribe(64)
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	// Reader loop only notices the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Info("results stream opened")
	for {
		select {
		case <-closed:
			s.logger.Info("results stream closed")
			return
		case res, ok := <-results:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(res); err != nil {
				return
			}
		}
	}
}
