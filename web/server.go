// ABOUTME: HTTP server exposing the analyzer websocket bridge and a read-only JSON API
// ABOUTME: Only one analyzer connection is served at a time
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/observability"
	"github.com/harperreed/acctnotes/store"
)

type Server struct {
	store    *store.Store
	session  *analyzer.Session
	logger   *zap.Logger
	metrics  *observability.Metrics
	upgrader websocket.Upgrader

	mu     sync.Mutex
	busy   bool
	active *WSChannel
}

func NewServer(st *store.Store, session *analyzer.Session, logger *zap.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:   st,
		session: session,
		logger:  logger,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The analyzer is served from its own origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/analyzer/ws", s.handleAnalyzerWS)
	r.Get("/analyzer/status", s.handleAnalyzerStatus)

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", s.handleListCustomers)
		r.Get("/{id}", s.handleGetCustomer)
		r.Get("/{id}/projection", s.handleProjection)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeActive()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleAnalyzerWS(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Resolve(r.URL.Query().Get("customer"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "analyzer already connected")
		return
	}
	// Reserve the slot before the handshake completes.
	s.busy = true
	s.mu.Unlock()
	defer s.release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ch := NewWSChannel(conn)
	s.mu.Lock()
	s.active = ch
	s.mu.Unlock()

	if err := s.session.Select(rec.ID); err != nil {
		s.logger.Warn("failed to select customer", zap.Error(err))
		_ = ch.Close()
		return
	}
	if err := s.session.OpenAnalyzer(ch); err != nil {
		s.logger.Warn("failed to open analyzer", zap.Error(err))
		_ = ch.Close()
		return
	}

	<-ch.Done()
	s.session.CloseAnalyzer()
	_ = ch.Close()
	s.logger.Info("analyzer disconnected", zap.String("customer_id", rec.ID.String()))
}

func (s *Server) release() {
	s.mu.Lock()
	s.busy = false
	s.active = nil
	s.mu.Unlock()
}

func (s *Server) closeActive() {
	s.mu.Lock()
	ch := s.active
	s.mu.Unlock()
	if ch != nil {
		_ = ch.Close()
	}
}

type analyzerStatus struct {
	Selected models.RecordID `json:"selected"`
	Open     bool            `json:"open"`
}

func (s *Server) handleAnalyzerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analyzerStatus{
		Selected: s.session.Selected(),
		Open:     s.session.AnalyzerOpen(),
	})
}

type customerSummary struct {
	ID         models.RecordID `json:"id"`
	Name       string          `json:"name"`
	LastEdited string          `json:"lastEdited"`
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	var customers []models.CustomerRecord
	if q := r.URL.Query().Get("q"); q != "" {
		customers = s.store.Search(q)
	} else {
		customers = s.store.List()
	}

	out := make([]customerSummary, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerSummary{ID: c.ID, Name: c.Name, LastEdited: c.LastEdited})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Resolve(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type projectionResponse struct {
	Projection    analyzer.Projection         `json:"projection"`
	Opportunities []analyzer.Opportunity      `json:"opportunities"`
	Solutions     []analyzer.OutboundSolution `json:"solutions"`
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Resolve(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{
		Projection:    analyzer.Project(rec),
		Opportunities: analyzer.OpportunitySync(rec),
		Solutions:     analyzer.ThirdPartySync(rec),
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAmbiguousName):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
