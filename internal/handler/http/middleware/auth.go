package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired turns the verified token into an auth.Identity on the request context.
// It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				response.HandleError(w, auth.ErrUnauthenticated)
				return
			}
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		identity, err := auth.IdentityFromClaims(claims)
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
	return http.HandlerFunc(hfn)
}
