package credentials

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"primepass/internal/security"
)

type analyzeRequest struct {
	Password string   `json:"password"`
	Hints    []string `json:"hints"`
}

type hashRequest struct {
	Password  string `json:"password"`
	Algorithm string `json:"algorithm"`
	Cost      int    `json:"cost"`
}

type verifyRequest struct {
	Password  string `json:"password"`
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
}

type verifyResponse struct {
	Algorithm security.Algorithm `json:"algorithm"`
	Match     bool               `json:"match"`
}

// RegisterHandlers mounts credential routes on r (normally under /v1).
func RegisterHandlers(r chi.Router, svc *Service, logger zerolog.Logger) {
	r.Get("/options", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, svc.Options(), http.StatusOK)
	})

	r.Route("/passwords", func(api chi.Router) {
		api.Post("/generate", func(w http.ResponseWriter, req *http.Request) {
			payload := svc.DefaultGenerateRequest()
			if !decode(w, req, &payload) {
				return
			}
			res, err := svc.Generate(req.Context(), payload)
			if err != nil {
				writeError(w, logger, err)
				return
			}
			writeJSON(w, res, http.StatusOK)
		})

		api.Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
			var payload analyzeRequest
			if !decode(w, req, &payload) {
				return
			}
			writeJSON(w, svc.Analyze(payload.Password, payload.Hints), http.StatusOK)
		})

		api.Post("/hash", func(w http.ResponseWriter, req *http.Request) {
			var payload hashRequest
			if !decode(w, req, &payload) {
				return
			}
			alg := DefaultAlgorithm
			if payload.Algorithm != "" {
				parsed, err := security.ParseAlgorithm(payload.Algorithm)
				if err != nil {
					writeError(w, logger, err)
					return
				}
				alg = parsed
			}
			res, err := svc.Hash(req.Context(), security.Request{
				Password:  payload.Password,
				Algorithm: alg,
				Cost:      payload.Cost,
			})
			if err != nil {
				writeError(w, logger, err)
				return
			}
			writeJSON(w, res, http.StatusOK)
		})

		api.Post("/verify", func(w http.ResponseWriter, req *http.Request) {
			var payload verifyRequest
			if !decode(w, req, &payload) {
				return
			}
			var alg security.Algorithm
			if payload.Algorithm != "" {
				parsed, err := security.ParseAlgorithm(payload.Algorithm)
				if err != nil {
					writeError(w, logger, err)
					return
				}
				alg = parsed
			}
			alg, match, err := svc.Verify(req.Context(), alg, payload.Password, payload.Hash)
			if err != nil {
				writeError(w, logger, err)
				return
			}
			writeJSON(w, verifyResponse{Algorithm: alg, Match: match}, http.StatusOK)
		})
	})
}

func decode(w http.ResponseWriter, req *http.Request, dst any) bool {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, map[string]string{"error": "payload too large"}, http.StatusRequestEntityTooLarge)
			return false
		}
		writeJSON(w, map[string]string{"error": "invalid payload"}, http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors to status codes. Sentinel messages never
// contain the password, so caller errors are echoed as-is.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case IsCallerError(err):
		writeJSON(w, map[string]string{"error": err.Error()}, http.StatusBadRequest)
	case errors.Is(err, ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeJSON(w, map[string]string{"error": "hashing capacity exhausted, retry later"}, http.StatusServiceUnavailable)
	default:
		logger.Error().Err(err).Msg("credential operation failed")
		writeJSON(w, map[string]string{"error": "internal error"}, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
