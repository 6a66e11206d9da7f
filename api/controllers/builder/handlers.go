package builder

import (
	"context"
	"net/http"

	"github.com/angelmondragon/florale-backend/api/middleware"
	"github.com/angelmondragon/florale-backend/api/responses"
	"github.com/angelmondragon/florale-backend/api/validators"
	buildersvc "github.com/angelmondragon/florale-backend/internal/builder"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

type viewFn func(ctx context.Context, sessionID string) (buildersvc.View, error)

// BuilderFetch returns the wizard state for the session.
func BuilderFetch(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionView(svc, logg, func(svc buildersvc.Service) viewFn { return svc.Get })
}

func BuilderNext(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionView(svc, logg, func(svc buildersvc.Service) viewFn { return svc.Next })
}

func BuilderPrev(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionView(svc, logg, func(svc buildersvc.Service) viewFn { return svc.Prev })
}

func BuilderReset(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionView(svc, logg, func(svc buildersvc.Service) viewFn { return svc.Reset })
}

// BuilderOptions returns the option tables the wizard steps render.
func BuilderOptions(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "builder service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Options())
	}
}

// BuilderSetStep jumps to a step. Step validity is not checked.
func BuilderSetStep(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload SetStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetStep(r.Context(), sessionID, payload.Step)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// BuilderUpdate sets selection fields by option id.
func BuilderUpdate(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload UpdateConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), sessionID, toUpdateInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// BuilderAddToCart adds the finished bouquet to the cart and returns the cart summary.
func BuilderAddToCart(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		summary, err := svc.AddToCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

func sessionView(svc buildersvc.Service, logg *logger.Logger, pick func(buildersvc.Service) viewFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		view, err := pick(svc)(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, svc buildersvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "builder service unavailable"))
		return "", false
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
		return "", false
	}
	return sessionID, true
}
