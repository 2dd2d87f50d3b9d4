package middleware

import "net/http"

// Role constants define the supported caller roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// RequireRole returns middleware that checks if the authenticated caller has
// one of the allowed roles. It must be chained after Auth.
//
// Returns 401 Unauthorized when no role is found in context and 403 Forbidden
// when the role does not match any of the allowed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				writeProblem(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if _, match := allowed[role]; !match {
				writeProblem(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleForWrites applies RequireRole to non-read methods only. Reads
// pass through with any authenticated role.
func RequireRoleForWrites(roles ...string) func(http.Handler) http.Handler {
	guard := RequireRole(roles...)

	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}
