package playground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the playground over HTTP.
type Server struct {
	log        logger.ILogger
	catalog    *Catalog
	dispatcher *Dispatcher
	sessions   *Sessions
	mock       *MockBackend
}

// NewServer creates a Server.
func NewServer(log logger.ILogger, catalog *Catalog, dispatcher *Dispatcher) *Server {
	return &Server{
		log:        log,
		catalog:    catalog,
		dispatcher: dispatcher,
		sessions:   NewSessions(),
		mock:       NewMockBackend(nil),
	}
}

// Handler returns the HTTP routes of the playground.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/openapi-tests", s.handleTests)
	mux.HandleFunc("POST /api/playground/{resource}/{action}", s.handleExecute)
	mux.HandleFunc("GET /api/playground/last", s.handleLast)
	mux.HandleFunc("POST /api/playground/sections/{section}/toggle", s.handleToggle)
	mux.HandleFunc("/api/", s.handleMock)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, errorEnvelope(http.StatusNotFound, CodeNotFound, "Route not found"))
	})

	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Infof("Playground listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Infof("Shutting down playground")

		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Load(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}

	switch {
	case snap.DirMissing && snap.Documents == 0:
		writeEnvelope(w, http.StatusOK, noSpecs(CodeNoOpenAPIDir, "OpenAPI directory not found"))
		return
	case snap.Empty():
		writeEnvelope(w, http.StatusOK, noSpecs(CodeNoSpecFiles, "No OpenAPI spec files found"))
		return
	}

	env := successEnvelope(snap.Config, http.StatusOK, CodeSuccess, "OpenAPI tests loaded successfully")
	env.Meta.Warnings = snap.Errors

	writeEnvelope(w, http.StatusOK, env)
}

// noSpecs is a successful, empty answer: the playground renders it as "nothing to test".
func noSpecs(code, message string) Envelope {
	return Envelope{
		Success: true,
		Data:    map[string]any{},
		Meta: Meta{
			HTTPStatusCode: http.StatusOK,
			Success:        &Status{Code: code, Message: message},
		},
	}
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	resource, action := r.PathValue("resource"), r.PathValue("action")

	inputs := Inputs{}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, errorEnvelope(http.StatusBadRequest, CodeInvalidBody, "Failed to read request body"))
		return
	}

	if strings.TrimSpace(string(data)) != "" {
		if err := json.Unmarshal(data, &inputs); err != nil {
			writeEnvelope(w, http.StatusBadRequest, errorEnvelope(http.StatusBadRequest, CodeInvalidBody, "Invalid JSON in request body"))
			return
		}
	}

	snap, err := s.catalog.Load(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}

	op, err := Lookup(snap.Config, resource, action)
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, errorEnvelope(http.StatusNotFound, CodeNotFound, err.Error()))
		return
	}

	if missing := MissingRequired(op, inputs); len(missing) > 0 {
		env := errorEnvelope(http.StatusBadRequest, CodeValidationError, "Missing required fields: "+strings.Join(missing, ", "))
		env.Meta.Error.Details = missing
		writeEnvelope(w, http.StatusBadRequest, env)

		return
	}

	target := TargetMock
	if r.URL.Query().Get("mock") == "false" {
		target = TargetReal
	}

	s.mock.Load(snap.Config)

	result, err := s.dispatcher.Dispatch(r.Context(), s.mock, target, BuildRequest(op, inputs))
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.sessions.Get(r.Header.Get(SessionHeader)).Record(result)

	writeEnvelope(w, http.StatusOK, successEnvelope(result, http.StatusOK, CodeSuccess, fmt.Sprintf("%s.%s dispatched", resource, action)))
}

func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	last, ok := s.sessions.Get(r.Header.Get(SessionHeader)).Last()
	if !ok {
		writeEnvelope(w, http.StatusNotFound, errorEnvelope(http.StatusNotFound, CodeNotFound, "No request has been sent yet"))
		return
	}

	writeEnvelope(w, http.StatusOK, successEnvelope(last, http.StatusOK, CodeSuccess, "Last request"))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	collapsed := s.sessions.Get(r.Header.Get(SessionHeader)).Toggle(section)

	data := map[string]any{"section": section, "collapsed": collapsed}
	writeEnvelope(w, http.StatusOK, successEnvelope(data, http.StatusOK, CodeSuccess, "Section toggled"))
}

func (s *Server) handleMock(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Load(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.mock.Load(snap.Config)
	s.mock.ServeHTTP(w, r)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Errorf("Request failed: %v", err)
	writeEnvelope(w, http.StatusInternalServerError, errorEnvelope(http.StatusInternalServerError, CodeInternalError, err.Error()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
