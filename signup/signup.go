// Package signup runs a waitlist submission: validate the form, short-circuit
// duplicates already known locally, optionally ask the remote API, submit,
// and record the success in the local tracker.
package signup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/tabsye/waitlist/logger"
	"github.com/tabsye/waitlist/tracker"
	"github.com/tabsye/waitlist/waitlist"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

var log = logger.New("signup")

// Tracker is the local duplicate cache. *tracker.Tracker satisfies it.
type Tracker interface {
	Has(ctx context.Context, kind tracker.Kind, value string) bool
	Add(ctx context.Context, kind tracker.Kind, value string)
}

// API is the remote waitlist. *waitlist.Client satisfies it.
type API interface {
	Add(ctx context.Context, req waitlist.AddRequest) (*waitlist.AddResponse, error)
	Exists(ctx context.Context, kind, value string) (bool, error)
}

// Request is one waitlist form submission.
type Request struct {
	Kind      tracker.Kind
	Value     string
	FirstName string
	LastName  string
}

// Service runs submissions against one tracker and one API.
type Service struct {
	tracker      Tracker
	api          API
	remoteExists bool
}

// Option configures a Service.
type Option func(*Service)

// WithRemoteExists makes Check and Submit consult the remote exists endpoint
// after the local tracker misses.
func WithRemoteExists(enabled bool) Option {
	return func(s *Service) {
		s.remoteExists = enabled
	}
}

// New creates a Service.
func New(t Tracker, api API, opts ...Option) *Service {
	s := &Service{tracker: t, api: api}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the form fields. Values are judged after trimming.
func Validate(req Request) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return ErrFirstNameRequired
	}
	if strings.TrimSpace(req.LastName) == "" {
		return ErrLastNameRequired
	}

	value := strings.TrimSpace(req.Value)
	switch req.Kind {
	case tracker.KindEmail:
		if value == "" {
			return ErrEmailRequired
		}
		if !emailPattern.MatchString(value) {
			return ErrInvalidEmail
		}
	case tracker.KindMobile:
		if value == "" {
			return ErrMobileRequired
		}
		if !mobilePattern.MatchString(value) {
			return ErrInvalidMobile
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}
	return nil
}

// Check reports whether value is already registered as kind. The local
// tracker answers first; the remote API is asked only when enabled, and a
// remote failure counts as "not registered".
func (s *Service) Check(ctx context.Context, kind tracker.Kind, value string) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	local, remote := s.lookup(ctx, kind, value)
	return local || remote, nil
}

// lookup reports where a duplicate was found.
func (s *Service) lookup(ctx context.Context, kind tracker.Kind, value string) (local, remote bool) {
	if s.tracker.Has(ctx, kind, value) {
		log.Debug("check %s: found in local tracker", kind)
		return true, false
	}
	if !s.remoteExists {
		return false, false
	}

	exists, err := s.api.Exists(ctx, string(kind), strings.TrimSpace(value))
	if err != nil {
		log.Warn("check %s: remote exists failed, continuing: %v", kind, err)
		return false, false
	}
	return false, exists
}

// Submit validates req, rejects known duplicates, submits to the remote API
// and records the value locally once the API reports success. A 409 from the
// API is reported as a duplicate; only a successful add is ever recorded.
func (s *Service) Submit(ctx context.Context, req Request) (*waitlist.AddResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	if local, remote := s.lookup(ctx, req.Kind, req.Value); local || remote {
		return nil, &DuplicateError{Kind: req.Kind, Remote: remote}
	}

	payload := waitlist.AddRequest{
		Type:      string(req.Kind),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if req.Kind == tracker.KindEmail {
		payload.Email = strings.TrimSpace(req.Value)
	} else {
		payload.Mobile = strings.TrimSpace(req.Value)
	}

	resp, err := s.api.Add(ctx, payload)
	if err != nil {
		var apiErr *waitlist.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, &DuplicateError{Kind: req.Kind, Remote: true}
		}
		log.Error("submit %s: %v", req.Kind, err)
		return nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return resp, &RejectedError{Message: msg}
	}

	s.tracker.Add(ctx, req.Kind, req.Value)
	log.Info("submit %s: registered", req.Kind)
	return resp, nil
}
