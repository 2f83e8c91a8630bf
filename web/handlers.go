package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/artpar/digigate/app"
	"github.com/artpar/digigate/domain/trx"
	"github.com/go-chi/chi/v5"
)

// trxPayload is the JSON body shape of the transaction endpoint. Form bodies
// use the same field names.
type trxPayload struct {
	MemberID string `json:"memberid"`
	Dest     string `json:"dest"`
	Product  string `json:"product"`
	ModuleID string `json:"moduleid"`
	TrxID    string `json:"trxid"`
	RefID    string `json:"refid"`
	PIN      string `json:"pin"`
	Password string `json:"password"`
	Sign     string `json:"sign"`
}

func (h *Handler) handleTrx(w http.ResponseWriter, r *http.Request) {
	start := h.clock.Now()

	provider := chi.URLParam(r, "provider")
	if provider == "" {
		provider = h.defaultProvider
	}

	req, err := parseTrxRequest(r)
	if err != nil {
		h.writeError(w, provider, trx.ErrBadRequest)
		return
	}
	if req.MemberID == "" || req.Dest == "" || req.Product == "" || req.ModuleID == "" {
		h.writeError(w, provider, trx.ErrBadRequest)
		return
	}

	resp, err := h.gateway.Handle(r.Context(), provider, req)
	if err != nil {
		h.writeError(w, provider, h.errorResponse(provider, err))
		return
	}

	if h.metrics != nil {
		h.metrics.TrxTotal.WithLabelValues(provider, "success").Inc()
		h.metrics.TrxDuration.WithLabelValues(provider).Observe(h.clock.Now().Sub(start).Seconds())
		h.metrics.UpstreamDuration.WithLabelValues(provider).Observe(float64(resp.LatencyMs) / 1000)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(h.clock.Now().Sub(h.startTime).Seconds()),
		"members":        h.members.Count(),
		"modules":        h.modules.Count(),
		"products":       h.products.Count(),
	})
}

// parseTrxRequest accepts JSON or form-encoded bodies.
func parseTrxRequest(r *http.Request) (trx.Request, error) {
	var p trxPayload

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return trx.Request{}, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return trx.Request{}, err
		}
		p = trxPayload{
			MemberID: r.Form.Get("memberid"),
			Dest:     r.Form.Get("dest"),
			Product:  r.Form.Get("product"),
			ModuleID: r.Form.Get("moduleid"),
			TrxID:    r.Form.Get("trxid"),
			RefID:    r.Form.Get("refid"),
			PIN:      r.Form.Get("pin"),
			Password: r.Form.Get("password"),
			Sign:     r.Form.Get("sign"),
		}
	}

	return trx.Request{
		MemberID: p.MemberID,
		Dest:     p.Dest,
		Product:  p.Product,
		ModuleID: p.ModuleID,
		TrxID:    p.TrxID,
		RefID:    p.RefID,
		PIN:      p.PIN,
		Password: p.Password,
		Sign:     p.Sign,
	}, nil
}

// errorResponse maps a gateway error to its wire representation.
// Credential values never appear here.
func (h *Handler) errorResponse(provider string, err error) trx.ErrorResponse {
	if ae, ok := app.AsAuthError(err); ok {
		if h.metrics != nil {
			h.metrics.AuthFailures.WithLabelValues(string(ae.Stage), string(ae.Code)).Inc()
		}
		return trx.ErrorResponse{
			Status:  statusFor(ae.Code),
			Code:    string(ae.Code),
			Message: ae.Message,
			Stage:   string(ae.Stage),
		}
	}
	if errors.Is(err, app.ErrQueryBuild) {
		return trx.ErrBuildFailed
	}
	if h.metrics != nil {
		h.metrics.UpstreamErrors.WithLabelValues(provider).Inc()
	}
	return trx.ErrUpstreamError
}

func statusFor(code app.AuthCode) int {
	switch code {
	case app.CodeNotFound:
		return http.StatusNotFound
	case app.CodeSignatureRequired, app.CodeInvalidSignature, app.CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}

func (h *Handler) writeError(w http.ResponseWriter, provider string, er trx.ErrorResponse) {
	if h.metrics != nil {
		h.metrics.TrxTotal.WithLabelValues(provider, "rejected").Inc()
	}

	body := map[string]string{
		"error":   er.Code,
		"message": er.Message,
	}
	if er.Stage != "" {
		body["stage"] = er.Stage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(er.Status)
	json.NewEncoder(w).Encode(body)
}
