package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type LockChecker interface {
	IsLocked(ctx context.Context) (bool, error)
}

type UnlockValidator interface {
	ValidateUnlockClaims(claims map[string]interface{}) error
}

// PinLock lets requests through while no PIN is set. Once a PIN is enabled,
// jwtauth.Verifier must have found a valid unlock token earlier in the chain.
func PinLock(locks LockChecker, tokens UnlockValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			locked, err := locks.IsLocked(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if !locked {
				next.ServeHTTP(w, r)
				return
			}

			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, settings.ErrLocked)
				return
			}
			if err := tokens.ValidateUnlockClaims(claims); err != nil {
				response.HandleError(w, settings.ErrLocked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
