package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"expense_manager/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const SubjectKey = utils.ContextKey("subject")

// JWTMiddleware accepts HS256 tokens signed with secret, read from the
// Authorization header or a "Bearer" cookie.
func JWTMiddleware(secret string, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	logger = utils.Component(logger, "auth")
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.WriteError(w, "Unauthorized: Missing Bearer token", http.StatusUnauthorized)
				return
			}

			parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.WriteError(w, "token expired", http.StatusUnauthorized)
					return
				}
				logger.WithError(err).Debug("rejected token")
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			if !parsedToken.Valid {
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			subject, _ := parsedToken.Claims.GetSubject()
			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		token, found := strings.CutPrefix(h, "Bearer ")
		token = strings.TrimSpace(token)
		return token, found && token != ""
	}
	cookie, err := r.Cookie("Bearer")
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return strings.TrimPrefix(cookie.Value, "Bearer "), true
}

// MiddlewaresExcludePaths applies middleware to every path except the excluded ones.
func MiddlewaresExcludePaths(middleware func(http.Handler) http.Handler, excludedPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range excludedPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
