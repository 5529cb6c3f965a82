package control

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonwraymond/powerops/suspend"
)

// Sleep state names and checkpoint levels are short tokens; anything
// longer than this in a write body is already malformed.
const maxBodyBytes = 64

// StateHandler returns the handler for /power/state. GET lists the
// currently supported sleep states; POST or PUT with a state name in
// the body suspends the machine and responds after it wakes.
func StateHandler(mgr *suspend.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			states := mgr.SupportedStates()
			names := make([]string, 0, len(states))
			for _, s := range states {
				names = append(names, s.String())
			}

			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(strings.Join(names, " ") + "\n"))

		case http.MethodPost, http.MethodPut:
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}

			state, err := suspend.ParseState(strings.TrimSpace(string(body)))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}

			if err := mgr.Suspend(r.Context(), state); err != nil {
				writeError(w, statusForError(err), err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			w.Header().Set("Allow", "GET, POST, PUT")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// StatsResponse is the JSON rendering of suspend.Stats.
type StatsResponse struct {
	Success         uint64 `json:"success"`
	Fail            uint64 `json:"fail"`
	FailedFreeze    uint64 `json:"failed_freeze"`
	LastFailedPhase string `json:"last_failed_phase,omitempty"`
	LastError       string `json:"last_error,omitempty"`
}

// StatsHandler returns the handler for /power/stats.
func StatsHandler(mgr *suspend.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		stats := mgr.Stats()
		response := StatsResponse{
			Success:      stats.Success,
			Fail:         stats.Fail,
			FailedFreeze: stats.FailedFreeze,
		}
		if stats.LastFailedPhase != suspend.PhaseNone {
			response.LastFailedPhase = stats.LastFailedPhase.String()
		}
		if stats.LastError != nil {
			response.LastError = stats.LastError.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// TestModeHandler returns the handler for /power/pm_test. GET renders
// every checkpoint level with the active one bracketed, for example
// "[none] core processors platform devices freezer"; PUT or POST with
// a level name selects it, keeping any configured hold delay.
func TestModeHandler(mgr *suspend.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			active := mgr.TestMode().Level
			parts := make([]string, 0, len(suspend.TestLevels))
			for _, level := range suspend.TestLevels {
				if level == active {
					parts = append(parts, "["+level.String()+"]")
				} else {
					parts = append(parts, level.String())
				}
			}

			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(strings.Join(parts, " ") + "\n"))

		case http.MethodPost, http.MethodPut:
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}

			level, err := suspend.ParseTestLevel(strings.TrimSpace(string(body)))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}

			cfg := mgr.TestMode()
			cfg.Level = level
			mgr.SetTestMode(cfg)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.Header().Set("Allow", "GET, POST, PUT")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// WakeHandler returns the handler for /power/wake. POST latches a
// wakeup, ending a transition idling in the freeze state; waking an
// idle manager is harmless.
func WakeHandler(mgr *suspend.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		mgr.Wake()
		w.WriteHeader(http.StatusNoContent)
	}
}

// ReadyResponse is the JSON body of the readiness endpoint.
type ReadyResponse struct {
	Ready  bool     `json:"ready"`
	Busy   bool     `json:"busy"`
	States []string `json:"states"`
}

// ReadyHandler returns the handler for /power/ready. The sleep path
// is ready when at least one state is suspendable and no transition
// is in flight; otherwise it responds 503 with the same body.
func ReadyHandler(mgr *suspend.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		states := mgr.SupportedStates()
		names := make([]string, 0, len(states))
		for _, s := range states {
			names = append(names, s.String())
		}

		response := ReadyResponse{
			Busy:   mgr.Busy(),
			States: names,
		}
		response.Ready = !response.Busy && len(names) > 0

		w.Header().Set("Content-Type", "application/json")
		if response.Ready {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// RegisterHandlers registers the power control endpoints on the mux.
func RegisterHandlers(mux *http.ServeMux, mgr *suspend.Manager) {
	mux.HandleFunc("/power/state", StateHandler(mgr))
	mux.HandleFunc("/power/stats", StatsHandler(mgr))
	mux.HandleFunc("/power/pm_test", TestModeHandler(mgr))
	mux.HandleFunc("/power/wake", WakeHandler(mgr))
	mux.HandleFunc("/power/ready", ReadyHandler(mgr))
}

// statusForError maps transition errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, suspend.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, suspend.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, suspend.ErrNoDriver):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}
