package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
)

// authedHandler is a handler that runs only for a verified caller.
type authedHandler func(w http.ResponseWriter, r *http.Request, caller auth.Identity)

// protected wraps h with bearer token verification. Requests without a valid
// token get 401 and never reach h.
func (s *Server) protected(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeErrorStatus(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}

		caller, err := s.tokens.Verify(token)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			writeErrorStatus(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}

		h(w, r, caller)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
