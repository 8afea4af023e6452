// Package server exposes the HTTP surface: the Telegram webhook plus the
// scheduler-triggered refresh and reminder endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"expensebot/internal/dateutils"
	"expensebot/internal/logging"
	"expensebot/internal/reconcile"
)

// SchedulerTokenHeader carries the shared secret for scheduler endpoints.
const SchedulerTokenHeader = "X-Secret-Token"

// Reconciler runs one reconciliation pass.
type Reconciler interface {
	Run(ctx context.Context) reconcile.Result
}

// ReminderSweeper computes the due reminder messages.
type ReminderSweeper interface {
	Messages(ctx context.Context, now time.Time) ([]string, error)
}

// Broadcaster delivers a message to all configured users.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string)
}

// Server is the bot's HTTP front.
type Server struct {
	router         chi.Router
	reconciler     Reconciler
	reminders      ReminderSweeper
	broadcaster    Broadcaster
	schedulerToken string
	logger         logging.Logger
}

// New assembles the router. webhook is the Telegram update handler (may be
// nil when running without a bot, e.g. in tests).
func New(
	webhook http.HandlerFunc,
	reconciler Reconciler,
	reminders ReminderSweeper,
	broadcaster Broadcaster,
	schedulerToken string,
	logger logging.Logger,
) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}

	s := &Server{
		reconciler:     reconciler,
		reminders:      reminders,
		broadcaster:    broadcaster,
		schedulerToken: schedulerToken,
		logger:         logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHealth)
	if webhook != nil {
		r.Post("/bot", webhook)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.requireSchedulerToken)
		r.Get("/types_refresh", s.handleTypesRefresh)
		r.Get("/reminders", s.handleReminders)
	})

	s.router = r
	return s
}

// Handler returns the assembled http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requireSchedulerToken guards the endpoints an external scheduler calls.
func (s *Server) requireSchedulerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.schedulerToken == "" || r.Header.Get(SchedulerTokenHeader) != s.schedulerToken {
			s.logger.WithField("path", r.URL.Path).Error("Invalid scheduler secret token")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<html><body><h1>Hello, You are here!</h1></body></html>"))
}

func (s *Server) handleTypesRefresh(w http.ResponseWriter, r *http.Request) {
	result := s.reconciler.Run(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if result.Status == reconcile.StatusError {
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.WithError(err).Warn("Failed to encode refresh result")
	}
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	messages, err := s.reminders.Messages(r.Context(), dateutils.NowIST())
	if err != nil {
		s.logger.WithError(err).Error("Reminder sweep failed")
		http.Error(w, "reminder sweep failed", http.StatusInternalServerError)
		return
	}

	for _, msg := range messages {
		s.broadcaster.Broadcast(r.Context(), msg)
	}

	s.logger.WithField("count", len(messages)).Info("Reminders processed")
	w.WriteHeader(http.StatusOK)
}
