package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/susu3304/haileybot/internal/commands"
	"github.com/susu3304/haileybot/internal/db"
)

const greeting = "Hello from haileybot"

// Public handlers
func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(greeting))
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Protected handlers
func (a *API) handleListPayments(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if a.payments == nil {
		http.Error(w, "payment journal is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	payments, err := a.payments.ListPayments(r.Context(), commands.ParseUserID(claims.UserID), limit)
	if err != nil {
		log.Printf("api: failed to list payments for %s: %v", claims.UserID, err)
		http.Error(w, "failed to list payments", http.StatusInternalServerError)
		return
	}
	if payments == nil {
		payments = []db.Payment{}
	}

	writeJSON(w, http.StatusOK, payments)
}
