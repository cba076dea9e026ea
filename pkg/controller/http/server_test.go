package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/launchboard/pkg/controller/http"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
	"github.com/secmon-lab/launchboard/pkg/usecase"
)

func newTestServer(t *testing.T) (*controller.Server, *usecase.Sessions) {
	t.Helper()

	records := []model.LaunchRecord{
		{Site: "CCAFS LC-40", PayloadMassKg: 0, Outcome: 0, BoosterVersionCategory: "v1.0"},
		{Site: "CCAFS LC-40", PayloadMassKg: 2034, Outcome: 1, BoosterVersionCategory: "FT"},
		{Site: "VAFB SLC-4E", PayloadMassKg: 500, Outcome: 0, BoosterVersionCategory: "v1.1"},
		{Site: "VAFB SLC-4E", PayloadMassKg: 9600, Outcome: 1, BoosterVersionCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMassKg: 2490, Outcome: 1, BoosterVersionCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMassKg: 5600, Outcome: 0, BoosterVersionCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMassKg: 3600, Outcome: 1, BoosterVersionCategory: "B4"},
	}
	ds, err := model.NewDataset(records)
	gt.NoError(t, err).Required()

	d, err := usecase.NewDashboard(ds, nil)
	gt.NoError(t, err).Required()
	sessions := usecase.NewSessions(d)

	server, err := controller.NewServer(context.Background(), ":0", d, sessions)
	gt.NoError(t, err).Required()
	return server, sessions
}

func doRequest(t *testing.T, server *controller.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := controller.NewServer(context.Background(), ":0", nil, nil)
	gt.Error(t, err)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/health", "")
	gt.Equal(t, w.Code, http.StatusOK)
	resp := decode[map[string]string](t, w)
	gt.Equal(t, resp["status"], "healthy")
}

func TestOptions(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/options", "")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")

	opts := decode[model.DashboardOptions](t, w)
	gt.Equal(t, opts.Title, model.DefaultDashboardTitle)
	gt.Equal(t, opts.DefaultSite, model.AllSites)
	gt.A(t, opts.Sites).Length(4)
	gt.Equal(t, opts.PayloadSlider.Min, 0.0)
	gt.Equal(t, opts.PayloadSlider.Max, 9600.0)
	gt.Equal(t, opts.RecordCount, 7)
}

func TestPieChart(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("all sites by default", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/pie", "")
		gt.Equal(t, w.Code, http.StatusOK)

		fig := decode[model.PieFigure](t, w)
		gt.Equal(t, fig.GroupBy, model.GroupBySite)
		gt.Equal(t, fig.Labels, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A"})
		gt.Equal(t, fig.Values, []int{1, 1, 2})
	})

	t.Run("single site", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/pie?site=KSC+LC-39A", "")
		gt.Equal(t, w.Code, http.StatusOK)

		fig := decode[model.PieFigure](t, w)
		gt.Equal(t, fig.GroupBy, model.GroupByClass)
		gt.Equal(t, fig.Labels, []string{"0", "1"})
		gt.Equal(t, fig.Values, []int{1, 2})
	})

	t.Run("unknown site is a bad request", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/pie?site=Nowhere", "")
		gt.Equal(t, w.Code, http.StatusBadRequest)
		resp := decode[map[string]string](t, w)
		gt.S(t, resp["error"]).Contains("invalid selection")
	})
}

func TestScatterChart(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("full range by default", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/scatter", "")
		gt.Equal(t, w.Code, http.StatusOK)

		fig := decode[model.ScatterFigure](t, w)
		gt.Equal(t, fig.Total, 7)
		gt.Equal(t, fig.Range, model.PayloadRange{Low: 0, High: 9600})
	})

	t.Run("filtered by site and range", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/scatter?site=KSC+LC-39A&low=2000&high=4000", "")
		gt.Equal(t, w.Code, http.StatusOK)

		fig := decode[model.ScatterFigure](t, w)
		gt.Equal(t, fig.Total, 2)
		gt.Equal(t, fig.Stats.SuccessCount, 2)
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/scatter?low=5000&high=1000", "")
		gt.Equal(t, w.Code, http.StatusOK)

		fig := decode[model.ScatterFigure](t, w)
		gt.Equal(t, fig.Total, 0)
		gt.A(t, fig.Series).Length(0)
	})

	t.Run("malformed bound is a bad request", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/scatter?low=heavy", "")
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("non-finite bound is a bad request", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/charts/scatter?high=NaN", "")
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

type sessionResponse struct {
	SessionID types.SessionID `json:"session_id"`
	Snapshot  model.Snapshot  `json:"snapshot"`
}

func TestSessionFlow(t *testing.T) {
	server, sessions := newTestServer(t)

	w := doRequest(t, server, http.MethodPost, "/api/sessions/", "")
	gt.Equal(t, w.Code, http.StatusCreated)
	created := decode[sessionResponse](t, w)
	gt.NoError(t, created.SessionID.Validate())
	gt.Equal(t, created.Snapshot.Selection.Site, model.AllSites)
	gt.Equal(t, sessions.Len(), 1)

	base := "/api/sessions/" + created.SessionID.String()

	t.Run("get returns the current snapshot", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, base+"/", "")
		gt.Equal(t, w.Code, http.StatusOK)
		snap := decode[model.Snapshot](t, w)
		gt.Equal(t, snap.Pie.GroupBy, model.GroupBySite)
	})

	t.Run("site change recomputes both charts", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPut, base+"/site", `{"site":"VAFB SLC-4E"}`)
		gt.Equal(t, w.Code, http.StatusOK)
		snap := decode[model.Snapshot](t, w)
		gt.Equal(t, snap.Selection.Site, types.SiteName("VAFB SLC-4E"))
		gt.Equal(t, snap.Pie.GroupBy, model.GroupByClass)
		gt.Equal(t, snap.Scatter.Total, 2)
	})

	t.Run("payload change narrows the scatter chart", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPut, base+"/payload", `{"low":0,"high":1000}`)
		gt.Equal(t, w.Code, http.StatusOK)
		snap := decode[model.Snapshot](t, w)
		gt.Equal(t, snap.Selection.Payload, model.PayloadRange{Low: 0, High: 1000})
		gt.Equal(t, snap.Scatter.Total, 1)
		gt.Equal(t, snap.Pie.GroupBy, model.GroupByClass)
	})

	t.Run("unknown site keeps the selection", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPut, base+"/site", `{"site":"Nowhere"}`)
		gt.Equal(t, w.Code, http.StatusBadRequest)

		w = doRequest(t, server, http.MethodGet, base+"/", "")
		snap := decode[model.Snapshot](t, w)
		gt.Equal(t, snap.Selection.Site, types.SiteName("VAFB SLC-4E"))
	})

	t.Run("malformed bodies are bad requests", func(t *testing.T) {
		gt.Equal(t, doRequest(t, server, http.MethodPut, base+"/site", `{`).Code, http.StatusBadRequest)
		gt.Equal(t, doRequest(t, server, http.MethodPut, base+"/site", `{}`).Code, http.StatusBadRequest)
		gt.Equal(t, doRequest(t, server, http.MethodPut, base+"/payload", `{"low":1}`).Code, http.StatusBadRequest)
		gt.Equal(t, doRequest(t, server, http.MethodPut, base+"/payload", `{"low":1,"high":2,"mid":3}`).Code, http.StatusBadRequest)
	})

	t.Run("delete ends the session", func(t *testing.T) {
		w := doRequest(t, server, http.MethodDelete, base+"/", "")
		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.Equal(t, sessions.Len(), 0)

		w = doRequest(t, server, http.MethodGet, base+"/", "")
		gt.Equal(t, w.Code, http.StatusNotFound)
	})
}

func TestUnknownSession(t *testing.T) {
	server, _ := newTestServer(t)

	for _, id := range []string{"not-a-uuid", types.NewSessionID().String()} {
		w := doRequest(t, server, http.MethodGet, "/api/sessions/"+id+"/", "")
		gt.Equal(t, w.Code, http.StatusNotFound)

		w = doRequest(t, server, http.MethodPut, "/api/sessions/"+id+"/site", `{"site":"ALL"}`)
		gt.Equal(t, w.Code, http.StatusNotFound)
	}
}

type event struct {
	name string
	data string
}

// readEvents parses server-sent events from r onto the returned channel
func readEvents(r *bufio.Reader) <-chan event {
	ch := make(chan event)
	go func() {
		defer close(ch)
		var ev event
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			case line == "" && ev.name != "":
				ch <- ev
				ev = event{}
			}
		}
	}()
	return ch
}

func TestSessionEvents(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/sessions/", "application/json", nil)
	gt.NoError(t, err).Required()
	var created sessionResponse
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&created)).Required()
	gt.NoError(t, resp.Body.Close())
	base := ts.URL + "/api/sessions/" + created.SessionID.String()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/events", nil)
	gt.NoError(t, err).Required()
	stream, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	defer stream.Body.Close()

	gt.Equal(t, stream.StatusCode, http.StatusOK)
	gt.S(t, stream.Header.Get("Content-Type")).Contains("text/event-stream")

	events := readEvents(bufio.NewReader(stream.Body))

	first := <-events
	gt.Equal(t, first.name, "snapshot")
	var snap model.Snapshot
	gt.NoError(t, json.Unmarshal([]byte(first.data), &snap))
	gt.Equal(t, snap.Selection.Site, model.AllSites)

	put := func(path, body string) {
		req, err := http.NewRequest(http.MethodPut, base+path, strings.NewReader(body))
		gt.NoError(t, err).Required()
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		gt.NoError(t, err).Required()
		gt.NoError(t, resp.Body.Close())
		gt.Equal(t, resp.StatusCode, http.StatusOK)
	}

	put("/site", `{"site":"KSC LC-39A"}`)

	// Both charts follow a site change; they may arrive in one flush or two
	seen := map[string]string{}
	for len(seen) < 2 {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event stream closed early")
			}
			seen[ev.name] = ev.data
		case <-ctx.Done():
			t.Fatal("timed out waiting for chart events")
		}
	}

	var pie model.PieFigure
	gt.NoError(t, json.Unmarshal([]byte(seen["pie"]), &pie))
	gt.Equal(t, pie.GroupBy, model.GroupByClass)

	var scatter model.ScatterFigure
	gt.NoError(t, json.Unmarshal([]byte(seen["scatter"]), &scatter))
	gt.Equal(t, scatter.Total, 3)

	put("/payload", `{"low":3000,"high":9600}`)

	select {
	case ev := <-events:
		gt.Equal(t, ev.name, "scatter")
		gt.NoError(t, json.Unmarshal([]byte(ev.data), &scatter))
		gt.Equal(t, scatter.Total, 2)
	case <-ctx.Done():
		t.Fatal("timed out waiting for scatter event")
	}
}

func TestSessionEventsEndWhenSessionDeleted(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/sessions/", "application/json", nil)
	gt.NoError(t, err).Required()
	var created sessionResponse
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&created)).Required()
	gt.NoError(t, resp.Body.Close())
	base := ts.URL + "/api/sessions/" + created.SessionID.String()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/events", nil)
	gt.NoError(t, err).Required()
	stream, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	defer stream.Body.Close()

	events := readEvents(bufio.NewReader(stream.Body))
	first := <-events
	gt.Equal(t, first.name, "snapshot")

	delReq, err := http.NewRequest(http.MethodDelete, base+"/", nil)
	gt.NoError(t, err).Required()
	delResp, err := http.DefaultClient.Do(delReq)
	gt.NoError(t, err).Required()
	gt.NoError(t, delResp.Body.Close())
	gt.Equal(t, delResp.StatusCode, http.StatusNoContent)

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-ctx.Done():
			t.Fatal("event stream stayed open after the session was deleted")
		}
	}
}
