package admin

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/BariVakhidov/guestlist/internal/lib/api/cont"
	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
)

// RequireAdmin lets through operators with the admin role only. It must run
// after authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, ok := cont.GetOperator(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Operator not found"))
			return
		}

		if !operator.IsAdmin() {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Admin role required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
