package server

import (
	"net/http"
	"time"
)

// OperatorLoginRequest is the request body for POST /api/operator/login.
type OperatorLoginRequest struct {
	PIN string `json:"pin"`
}

// OperatorResponse describes the caller's operator state.
type OperatorResponse struct {
	Required      bool `json:"required"`
	Authenticated bool `json:"authenticated"`
}

func handleOperatorLogin(auth *OperatorAuth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OperatorLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id, err := auth.Login(req.PIN)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid pin")
			return
		}

		if id != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     operatorCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(operatorSessionTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		writeJSON(w, http.StatusOK, OperatorResponse{Required: auth.Required(), Authenticated: true})
	}
}

func handleOperatorLogout(auth *OperatorAuth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(operatorCookieName); err == nil && cookie.Value != "" {
			auth.Logout(cookie.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     operatorCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleOperatorMe(auth *OperatorAuth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, OperatorResponse{
			Required:      auth.Required(),
			Authenticated: auth.Authorized(r),
		})
	}
}
