package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// chartHandler serves stateless chart requests
type chartHandler struct {
	dashboard interfaces.Dashboard
}

func (h *chartHandler) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.dashboard.Options())
}

func (h *chartHandler) handlePie(w http.ResponseWriter, r *http.Request) {
	fig, err := h.dashboard.PieFigure(r.Context(), h.siteParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fig)
}

func (h *chartHandler) handleScatter(w http.ResponseWriter, r *http.Request) {
	payload := h.dashboard.DefaultSelection().Payload

	low, err := floatParam(r, "low", payload.Low)
	if err != nil {
		writeError(w, r, err)
		return
	}
	high, err := floatParam(r, "high", payload.High)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fig, err := h.dashboard.ScatterFigure(r.Context(), h.siteParam(r), model.PayloadRange{Low: low, High: high})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fig)
}

// siteParam returns the site query parameter, or the default site when absent
func (h *chartHandler) siteParam(r *http.Request) types.SiteName {
	if site := r.URL.Query().Get("site"); site != "" {
		return types.SiteName(site)
	}
	return h.dashboard.DefaultSelection().Site
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid query parameter",
			goerr.T(errTagBadRequest),
			goerr.V("name", name),
			goerr.V("value", raw))
	}
	if !isFinite(v) {
		return 0, goerr.New("query parameter must be a finite number",
			goerr.T(errTagBadRequest),
			goerr.V("name", name),
			goerr.V("value", raw))
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
