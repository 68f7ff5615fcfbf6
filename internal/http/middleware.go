package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// slackVerifyMiddleware rejects requests that are not signed with the Slack
// signing secret. An empty secret disables the check.
func slackVerifyMiddleware(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				log.Error("Failed to read request body", "error", err)
				http.Error(w, "Failed to read request body", bodyErrorStatus(err, http.StatusInternalServerError))
				return
			}
			verifier, err := slack.NewSecretsVerifier(r.Header, secret)
			if err != nil {
				log.Warn("Rejected unsigned Slack request", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if _, err := verifier.Write(body); err != nil {
				http.Error(w, "Failed to verify request", http.StatusInternalServerError)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Rejected Slack request with bad signature", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// bodyErrorStatus answers 413 when err comes from an oversized body and
// fallback otherwise.
func bodyErrorStatus(err error, fallback int) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return fallback
}
