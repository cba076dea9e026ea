package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// keepAliveInterval is how often an idle event stream sends a comment line
var keepAliveInterval = 30 * time.Second

// sessionHandler serves the per-session selector state and its event stream
type sessionHandler struct {
	sessions interfaces.SessionStore
}

type createSessionResponse struct {
	SessionID types.SessionID `json:"session_id"`
	Snapshot  *model.Snapshot `json:"snapshot"`
}

type setSiteRequest struct {
	Site types.SiteName `json:"site"`
}

type setPayloadRequest struct {
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
}

func (h *sessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, binding, err := h.sessions.Create(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, createSessionResponse{
		SessionID: id,
		Snapshot:  binding.Snapshot(),
	})
}

func (h *sessionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	binding, err := h.binding(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, binding.Snapshot())
}

func (h *sessionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(chi.URLParam(r, "sessionID"))
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *sessionHandler) handleSetSite(w http.ResponseWriter, r *http.Request) {
	binding, err := h.binding(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req setSiteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Site == "" {
		writeError(w, r, goerr.New("site is required", goerr.T(errTagBadRequest)))
		return
	}

	if err := binding.SetSite(r.Context(), req.Site); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, binding.Snapshot())
}

func (h *sessionHandler) handleSetPayload(w http.ResponseWriter, r *http.Request) {
	binding, err := h.binding(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req setPayloadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Low == nil || req.High == nil {
		writeError(w, r, goerr.New("low and high are required", goerr.T(errTagBadRequest)))
		return
	}
	if !isFinite(*req.Low) || !isFinite(*req.High) {
		writeError(w, r, goerr.New("low and high must be finite numbers", goerr.T(errTagBadRequest)))
		return
	}

	if err := binding.SetPayloadRange(r.Context(), model.PayloadRange{Low: *req.Low, High: *req.High}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, binding.Snapshot())
}

// handleEvents streams recomputed figures as server-sent events. The first
// event is a snapshot of the current state; after that every recomputation
// emits a "pie" or "scatter" event. The stream ends when the session is
// deleted or expires. An open stream keeps its session alive.
func (h *sessionHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(chi.URLParam(r, "sessionID"))
	binding, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, goerr.New("streaming is not supported"))
		return
	}

	ctx := r.Context()
	logger := ctxlog.From(ctx)

	box := newMailbox()
	unPie := binding.OnPie(func(_ context.Context, fig *model.PieFigure) { box.putPie(fig) })
	defer unPie()
	unScatter := binding.OnScatter(func(_ context.Context, fig *model.ScatterFigure) { box.putScatter(fig) })
	defer unScatter()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "snapshot", binding.Snapshot()); err != nil {
		logger.Debug("Failed to write snapshot event", "error", err)
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-binding.Done():
			logger.Debug("Session ended, closing event stream", "session_id", id)
			return

		case <-ticker.C:
			if _, err := h.sessions.Get(ctx, id); err != nil {
				logger.Debug("Session gone, closing event stream", "session_id", id)
				return
			}
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-box.ready:
			pie, scatter := box.take()
			if pie != nil {
				if err := writeEvent(w, "pie", pie); err != nil {
					logger.Debug("Failed to write pie event", "error", err)
					return
				}
			}
			if scatter != nil {
				if err := writeEvent(w, "scatter", scatter); err != nil {
					logger.Debug("Failed to write scatter event", "error", err)
					return
				}
			}
			flusher.Flush()
		}
	}
}

func (h *sessionHandler) binding(r *http.Request) (interfaces.SelectionBinding, error) {
	id := types.SessionID(chi.URLParam(r, "sessionID"))
	return h.sessions.Get(r.Context(), id)
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(errTagBadRequest))
	}
	return nil
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to encode event", goerr.V("event", name))
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return goerr.Wrap(err, "failed to write event", goerr.V("event", name))
	}
	return nil
}

// mailbox holds the newest undelivered figure of each chart. Listeners run
// inside the binding's update and must not block, so a slow stream only ever
// sees the latest figures.
type mailbox struct {
	mu      sync.Mutex
	pie     *model.PieFigure
	scatter *model.ScatterFigure
	ready   chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

func (m *mailbox) putPie(fig *model.PieFigure) {
	m.mu.Lock()
	m.pie = fig
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) putScatter(fig *model.ScatterFigure) {
	m.mu.Lock()
	m.scatter = fig
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() (*model.PieFigure, *model.ScatterFigure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pie, scatter := m.pie, m.scatter
	m.pie, m.scatter = nil, nil
	return pie, scatter
}
