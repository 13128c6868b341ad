package app

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const defaultHistoryLimit = 50

// RegisterRoutes wires the API and control websocket onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/profiles", a.handleProfiles)
	mux.HandleFunc("/api/workspaces", a.handleWorkspaces)
	mux.HandleFunc("/api/history", a.handleHistory)
	mux.HandleFunc("/api/monitors", a.handleMonitors)
	mux.HandleFunc("/api/settings", a.handleSettings)
	mux.Handle("/ws/control", a.Control())
	mux.HandleFunc("/favicon.ico", handleFavicon)
}

type loginRequest struct {
	Password string `json:"password"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	writeJSON(w, map[string]bool{"ok": true})
}

// handleState returns the current session snapshot.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	writeJSON(w, a.session.Snapshot())
}

// handleProfiles lists stored profile names.
func (a *App) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	names, err := a.profiles.Names()
	if err != nil {
		a.log.Warn("list profiles failed", "err", err)
		http.Error(w, "failed to list profiles", http.StatusInternalServerError)
		return
	}
	writeJSON(w, nonNil(names))
}

// handleWorkspaces lists stored workspace names.
func (a *App) handleWorkspaces(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	names, err := a.workspaces.Names()
	if err != nil {
		a.log.Warn("list workspaces failed", "err", err)
		http.Error(w, "failed to list workspaces", http.StatusInternalServerError)
		return
	}
	writeJSON(w, nonNil(names))
}

// handleHistory returns recent runs, newest first. ?limit=N caps the count.
func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	entries, err := a.History(r.Context(), limit)
	if err != nil {
		a.log.Warn("list history failed", "err", err)
		http.Error(w, "failed to list history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, nonNil(entries))
}

// handleMonitors returns the cached monitor list.
func (a *App) handleMonitors(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	writeJSON(w, a.ListMonitors())
}

// handleSettings returns the remembered targets and tool settings.
func (a *App) handleSettings(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	writeJSON(w, a.Settings())
}

// requireAuth returns false and writes an error if the session is not authenticated.
func (a *App) requireAuth(w http.ResponseWriter) bool {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
