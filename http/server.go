// Package http serves the send-ETH widget as a frame: one controller per
// viewer session, form posts for the actions and a JSON view of the state.
// The handlers are plain net/http; the chi and gin subpackages mount them.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/http/internal/helpers"
	"github.com/mark3labs/sendeth-frame/monitor"
	"github.com/mark3labs/sendeth-frame/widget"
)

// Route paths.
const (
	PathIndex   = "/"
	PathAmount  = "/amount"
	PathConnect = widget.ConnectPath
	PathSend    = widget.SendPath
	PathState   = "/api/state"
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
)

// DefaultSessionTTL is used when Config.SessionTTL is zero.
const DefaultSessionTTL = 30 * time.Minute

// Config holds the frame server settings.
type Config struct {
	// Recipient is the fixed payment address.
	Recipient string

	// Card is the static card copy.
	Card widget.Card

	// DefaultAmount pre-fills the amount input. Empty means widget.DefaultAmount.
	DefaultAmount string

	// ConfirmMessage is signed on connect. Empty means widget.DefaultConfirmMessage.
	ConfirmMessage string

	// SessionTTL is how long an idle viewer session is kept.
	SessionTTL time.Duration
}

// Server holds the frame handlers.
type Server struct {
	config   Config
	bridge   sendeth.Bridge
	latch    *widget.Latch
	logger   *zap.Logger
	metrics  *monitor.Metrics
	sessions *SessionStore
}

// Route is one endpoint, for adapters that mount the server on a router.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// NewServer validates config and builds the server. metrics may be nil.
func NewServer(config Config, bridge sendeth.Bridge, latch *widget.Latch, logger *zap.Logger, metrics *monitor.Metrics) (*Server, error) {
	if bridge == nil || latch == nil {
		return nil, errors.New("http: bridge and latch are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}

	s := &Server{
		config:  config,
		bridge:  bridge,
		latch:   latch,
		logger:  logger,
		metrics: metrics,
	}
	s.sessions = NewSessionStore(config.SessionTTL, s.newController)

	// Fail fast on a bad recipient instead of on the first viewer.
	if _, err := s.newController("probe"); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}

	return s, nil
}

func (s *Server) newController(id string) (*widget.Controller, error) {
	opts := []widget.Option{
		widget.WithRecipient(s.config.Recipient),
		widget.WithConfirmMessage(s.config.ConfirmMessage),
		widget.WithLogger(s.logger.With(zap.String("session", id))),
		widget.WithMetrics(s.metrics),
	}
	if s.config.DefaultAmount != "" {
		opts = append(opts, widget.WithDefaultAmount(s.config.DefaultAmount))
	}
	return widget.New(s.bridge, s.latch, opts...)
}

// Logger returns the server logger.
func (s *Server) Logger() *zap.Logger { return s.logger }

// Metrics returns the metrics sink, possibly nil.
func (s *Server) Metrics() *monitor.Metrics { return s.metrics }

// Sessions returns the session store.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// Routes lists every endpoint. The metrics endpoint is included only when
// metrics are configured.
func (s *Server) Routes() []Route {
	routes := []Route{
		{Method: http.MethodGet, Path: PathIndex, Handler: s.HandleIndex},
		{Method: http.MethodPost, Path: PathAmount, Handler: s.HandleAmount},
		{Method: http.MethodPost, Path: PathConnect, Handler: s.HandleConnect},
		{Method: http.MethodPost, Path: PathSend, Handler: s.HandleSend},
		{Method: http.MethodGet, Path: PathState, Handler: s.HandleState},
		{Method: http.MethodGet, Path: PathHealth, Handler: s.HandleHealth},
	}
	if s.metrics != nil {
		routes = append(routes, Route{Method: http.MethodGet, Path: PathMetrics, Handler: s.metrics.Handler().ServeHTTP})
	}
	return routes
}

// HandleIndex renders the card.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := widget.Render(w, widget.NewView(ctrl.State(), s.config.Card)); err != nil {
		s.logger.Error("render card", zap.Error(err))
	}
}

// HandleAmount stores the posted amount.
func (s *Server) HandleAmount(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	if !s.applyAmount(w, r, ctrl) {
		return
	}

	s.respond(w, r, ctrl)
}

// HandleConnect applies the posted amount, if any, then runs the connect
// flow.
func (s *Server) HandleConnect(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	if !s.applyAmount(w, r, ctrl) {
		return
	}

	if err := ctrl.Connect(context.WithoutCancel(r.Context())); err != nil {
		s.logger.Debug("connect finished with error", zap.Error(err))
	}

	s.respond(w, r, ctrl)
}

// HandleSend applies the posted amount, if any, then runs the send flow.
func (s *Server) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	if !s.applyAmount(w, r, ctrl) {
		return
	}

	if err := ctrl.Send(context.WithoutCancel(r.Context())); err != nil {
		s.logger.Debug("send finished with error", zap.Error(err))
	}

	s.respond(w, r, ctrl)
}

// StateResponse is the JSON body of PathState.
type StateResponse struct {
	widget.State
	Recipient string `json:"recipient"`
}

// HandleState returns the viewer's state as JSON.
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	helpers.WriteJSON(w, http.StatusOK, StateResponse{State: ctrl.State(), Recipient: ctrl.Recipient()})
}

// HandleHealth reports 200 once the bridge is ready, 503 before.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.latch.IsSet() {
		helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*widget.Controller, bool) {
	ctrl, err := s.sessions.Controller(w, r)
	if err != nil {
		s.logger.Error("create session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return ctrl, true
}

// applyAmount stores a posted amount field. The card's input is disabled
// while a send is in flight, so amounts posted then are dropped. It
// reports false after writing an error response.
func (s *Server) applyAmount(w http.ResponseWriter, r *http.Request, ctrl *widget.Controller) bool {
	amount, present, err := helpers.PostedAmount(r)
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return false
	}
	if present && !ctrl.State().Sending {
		ctrl.HandleAmountChange(amount)
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, ctrl *widget.Controller) {
	if helpers.WantsJSON(r) {
		helpers.WriteJSON(w, http.StatusOK, StateResponse{State: ctrl.State(), Recipient: ctrl.Recipient()})
		return
	}
	helpers.SeeOther(w, r, PathIndex)
}
