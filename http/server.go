package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/prometheus"
	"github.com/fwojciec/prospect/session"
	"github.com/google/uuid"
)

// MaxRequestSize caps a message body. Requests may carry a full page.
const MaxRequestSize = 16 << 20

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server serves the message protocol over HTTP: POST /message takes a
// prospect.Request and answers with a prospect.Envelope.
type Server struct {
	// Reader loads and extracts a profile by URL.
	Reader prospect.ProfileReader

	// Parser and Extractor extract a profile from HTML sent in the request.
	Parser    prospect.DocumentParser
	Extractor prospect.Extractor

	Enricher prospect.Enricher
	Accounts prospect.AccountChecker

	// Cache and Tracker are optional. Without a Tracker, results are never
	// discarded as superseded.
	Cache   *session.Cache
	Tracker *session.Tracker

	// Metrics is optional. When set, GET /metrics serves it.
	Metrics *prometheus.Metrics

	Logger *slog.Logger
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /message", s.handleMessage)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, prospect.Succeed("", map[string]string{"status": "ok"}))
	})
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger().Info("message server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req prospect.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestSize))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, prospect.Fail("", prospect.Errorf(prospect.EINVALID, "Malformed request: %v", err)))
		return
	}
	writeJSON(w, http.StatusOK, s.Handle(r.Context(), req))
}

// Handle answers one message protocol request.
func (s *Server) Handle(ctx context.Context, req prospect.Request) (env prospect.Envelope) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	defer func(begin time.Time) {
		var err error
		if !env.Success {
			err = prospect.Errorf(env.Code, "%s", env.Error)
		}
		if s.Metrics != nil {
			s.Metrics.ObserveMessage(req.Action, err)
		}
		s.logger().Debug("message",
			"id", req.ID,
			"action", req.Action,
			"tab", req.Tab,
			"success", env.Success,
			"code", env.Code,
			"duration", time.Since(begin),
		)
	}(time.Now())

	switch req.Action {
	case prospect.ActionPing:
		return prospect.Succeed(req.ID, map[string]string{"message": "active"})
	case prospect.ActionExtractProfile:
		return s.tracked(ctx, req, s.extractProfile)
	case prospect.ActionFetchContact:
		return s.tracked(ctx, req, s.fetchContact)
	case prospect.ActionTestCredential:
		return s.testCredential(ctx, req)
	case prospect.ActionNavigate, prospect.ActionCloseTab:
		return s.tabEvent(req)
	default:
		return prospect.Fail(req.ID, prospect.Errorf(prospect.EINVALID, "unknown action"))
	}
}

// tracked runs fn as the tab's request in flight and discards its result
// when a newer request or a navigation superseded it.
func (s *Server) tracked(ctx context.Context, req prospect.Request, fn func(context.Context, prospect.Request) prospect.Envelope) prospect.Envelope {
	if s.Tracker == nil || req.Tab == "" {
		return fn(ctx, req)
	}
	token := s.Tracker.Begin(req.Tab, pageURL(req))
	env := fn(ctx, req)
	if err := s.Tracker.Accept(req.Tab, token); err != nil {
		return prospect.Fail(req.ID, err)
	}
	return env
}

func (s *Server) tabEvent(req prospect.Request) prospect.Envelope {
	if req.Tab == "" {
		return prospect.Fail(req.ID, prospect.Errorf(prospect.EINVALID, "tab required"))
	}
	if s.Tracker != nil {
		if req.Action == prospect.ActionCloseTab {
			s.Tracker.Close(req.Tab)
		} else {
			s.Tracker.Navigate(req.Tab, req.URL)
		}
	}
	return prospect.Succeed(req.ID, nil)
}

func pageURL(req prospect.Request) string {
	if req.URL == "" && req.Profile != nil {
		return req.Profile.URL
	}
	return req.URL
}

func (s *Server) extractProfile(ctx context.Context, req prospect.Request) prospect.Envelope {
	if req.HTML == "" && req.URL == "" {
		return prospect.Fail(req.ID, prospect.Errorf(prospect.EINVALID, "url or html required"))
	}
	if req.HTML == "" && s.Cache != nil {
		if p, ok := s.Cache.Get(req.URL); ok {
			return prospect.Succeed(req.ID, p)
		}
	}

	var profile *prospect.Profile
	var err error
	if req.HTML != "" {
		profile, err = s.extractHTML(req.HTML, req.URL)
	} else {
		profile, err = s.Reader.Read(ctx, req.URL)
	}
	if err != nil {
		s.logError(req, err)
		return prospect.Fail(req.ID, err)
	}
	if s.Cache != nil && req.URL != "" {
		s.Cache.Put(req.URL, profile)
	}
	return prospect.Succeed(req.ID, profile)
}

func (s *Server) extractHTML(html, url string) (*prospect.Profile, error) {
	doc, err := s.Parser.Parse(html, url)
	if err != nil {
		return nil, err
	}
	profile, err := s.Extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	profile.URL = url
	return profile, nil
}

func (s *Server) fetchContact(ctx context.Context, req prospect.Request) prospect.Envelope {
	profile := req.Profile
	if profile == nil && req.URL != "" && s.Cache != nil {
		profile, _ = s.Cache.Get(req.URL)
	}

	contact, err := s.Enricher.Enrich(ctx, profile)
	if err != nil {
		s.logError(req, err)
		return prospect.Fail(req.ID, err)
	}
	if !contact.Found() {
		env := prospect.Fail(req.ID, prospect.Errorf(prospect.ENOTFOUND, "%s", NotFoundMessage(contact.Query)))
		env.Data = contact
		return env
	}
	return prospect.Succeed(req.ID, contact)
}

// NotFoundMessage describes an exhausted search for display.
func NotFoundMessage(q prospect.SearchQuery) string {
	name := strings.TrimSpace(q.FirstName + " " + q.LastName)
	return fmt.Sprintf("No email found for %s at %s", name, q.Key())
}

func (s *Server) testCredential(ctx context.Context, req prospect.Request) prospect.Envelope {
	account, err := s.Accounts.CheckAccount(ctx, req.APIKey)
	if err != nil {
		s.logError(req, err)
		return prospect.Fail(req.ID, err)
	}
	if !account.Valid {
		env := prospect.Fail(req.ID, prospect.Errorf(prospect.EUNAUTHORIZED, "%s", account.Reason))
		env.Data = account
		return env
	}
	return prospect.Succeed(req.ID, account)
}

// logError logs errors the user cannot act on.
func (s *Server) logError(req prospect.Request, err error) {
	if prospect.ErrorCode(err) != prospect.EINTERNAL {
		return
	}
	s.logger().Error("message failed", "id", req.ID, "action", req.Action, "err", err)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
