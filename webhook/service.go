package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/smileworthy/benefix/auth"
	"github.com/smileworthy/benefix/commerce"
	"github.com/smileworthy/benefix/member"
	resp "github.com/smileworthy/benefix/response"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SDFGenerator defines the on-demand SDF regeneration hook for the admin
// surface
type SDFGenerator interface {
	GenerateSDF(ctx context.Context, now time.Time) (string, error)
}

// ServiceOptions contains the configuration for the Service router
type ServiceOptions struct {
	Auth        *auth.Auth
	Router      *Router
	Ledger      *member.Ledger
	Extracts    ExtractGenerator
	SDFExtracts SDFGenerator
	Commerce    *commerce.Client
	Logger      *zap.Logger
}

// Service is the webhook API router
type Service struct {
	ServiceOptions
	validate *validator.Validate
}

// NewService will create an instance of the webhook API router
func NewService(option ServiceOptions) (*Service, error) {
	if option.Auth == nil {
		return nil, fmt.Errorf("nil Auth is invalid")
	}
	if option.Router == nil {
		return nil, fmt.Errorf("nil Router is invalid")
	}
	if option.Ledger == nil {
		return nil, fmt.Errorf("nil Ledger is invalid")
	}
	if option.Extracts == nil {
		return nil, fmt.Errorf("nil Extracts is invalid")
	}
	if option.SDFExtracts == nil {
		return nil, fmt.Errorf("nil SDFExtracts is invalid")
	}
	if option.Commerce == nil {
		return nil, fmt.Errorf("nil Commerce is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Service{
		ServiceOptions: option,
		validate:       validator.New(),
	}, nil
}

// receiveEvent is the endpoint the upstream platform delivers order events to
func (s *Service) receiveEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		resp.WriteError(w, r, resp.ErrInvalidJson())
		return
	}
	if err := s.validate.Struct(&event); err != nil {
		resp.WriteError(w, r, resp.ErrBadRequest().AddMessages("Event is missing required fields"))
		return
	}

	logger := s.Logger.With(
		zap.String("Topic", event.Topic),
		zap.String("OrderID", event.Data.OrderID),
	)

	outcome, err := s.ServiceOptions.Router.Route(ctx, &event)
	if err != nil {
		logger.Error("Unable to process event",
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to process event"))
		return
	}

	resp.WriteResponse(w, r, map[string]string{
		"outcome": string(outcome),
	})
}

func (s *Service) listMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp.WriteResponse(w, r, s.Ledger.All(ctx))
}

func (s *Service) forceEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.Extracts.GenerateEligibility(ctx); err != nil {
		s.Logger.Error("Unable to generate eligibility extract",
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to generate eligibility extract"))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Service) forceSDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.SDFExtracts.GenerateSDF(ctx, time.Now()); err != nil {
		s.Logger.Error("Unable to generate SDF extract",
			zap.Error(err),
		)
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to generate SDF extract"))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Service) listHooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hooks, err := s.Commerce.ListWebhooks(ctx)
	if err != nil {
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to list webhooks"))
		return
	}
	resp.WriteResponse(w, r, hooks)
}

type createHookRequest struct {
	Scope       string `json:"scope" validate:"required"`
	Destination string `json:"destination" validate:"required,url"`
}

func (s *Service) createHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.WriteError(w, r, resp.ErrInvalidJson())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		resp.WriteError(w, r, resp.ErrBadRequest().AddMessages("Scope and a valid destination URL are required"))
		return
	}

	hook, err := s.Commerce.CreateWebhook(ctx, req.Scope, req.Destination)
	if err != nil {
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to create webhook"))
		return
	}
	resp.WriteResponse(w, r, hook)
}

func (s *Service) deleteHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		resp.WriteError(w, r, resp.ErrBadRequest().AddMessages("Webhook id must be numeric"))
		return
	}
	if err := s.Commerce.DeleteWebhook(ctx, id); err != nil {
		resp.WriteError(w, r, resp.ErrUnexpected().AddMessages("Unable to delete webhook"))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Router composes the webhook delivery endpoint and the signed admin surface
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/events", s.receiveEvent)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(s.Auth.Middleware())
		admin.Get("/members", s.listMembers)
		admin.Post("/extracts/eligibility", s.forceEligibility)
		admin.Post("/extracts/sdf", s.forceSDF)
		admin.Get("/hooks", s.listHooks)
		admin.Post("/hooks", s.createHook)
		admin.Delete("/hooks/{id}", s.deleteHook)
	})

	return r
}
