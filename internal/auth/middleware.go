package auth

import (
	"context"
	"net/http"
	"strings"

	firebaseAuth "firebase.google.com/go/auth"
	"github.com/golang/glog"

	"fypportal/internal/qerrors"
	"fypportal/internal/respond"
)

// TokenVerifier verifies Firebase ID tokens. *firebaseAuth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseAuth.Token, error)
}

type callerKey struct{}

// Identity is a middleware that verifies the bearer ID token on the request and adds the caller's
// uid to the request context, where ResolveUID and CallerUID can read it. With a nil verifier
// requests pass through untouched and caller-supplied uids are trusted.
func Identity(verifier TokenVerifier) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				respond.Error(w, r, qerrors.MissingTokenError)
				return
			}

			decoded, err := verifier.VerifyIDToken(r.Context(), token)
			if err != nil {
				glog.Warningf("rejected identity token: %v\n", err)
				respond.Error(w, r, qerrors.InvalidTokenError)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, decoded.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerUID returns the verified uid of the caller, or "" when identity verification is off.
func CallerUID(r *http.Request) string {
	uid, _ := r.Context().Value(callerKey{}).(string)
	return uid
}

// ResolveUID reconciles a uid claimed in a request body or query with the verified caller. An
// empty claim is filled from the caller; a different claim is rejected. Without a verified caller
// the claim is returned as-is.
func ResolveUID(r *http.Request, claimed string) (string, error) {
	caller := CallerUID(r)
	if caller == "" {
		return claimed, nil
	}
	if claimed == "" {
		return caller, nil
	}
	if claimed != caller {
		return "", qerrors.IdentityMismatch
	}
	return claimed, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
