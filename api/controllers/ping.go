package controllers

import (
	"net/http"

	"github.com/angelmondragon/bitefinderz-backend/api/responses"
)

// PublicPing answers unauthenticated reachability probes.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}
