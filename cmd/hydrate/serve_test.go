package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/pkg/fixture"
)

const cardFixture = `
name: card
templates:
  card: ["<div class=\"", "\"><ul>", "</ul></div>"]
  item: ["<li>", "</li>"]
root:
  template: card
  values:
    - big
    - list:
        - {template: item, values: [one]}
        - {template: item, values: [two]}
`

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	f, err := fixture.Parse([]byte(cardFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := newServer(cfg, map[string]*fixture.File{f.Name: f}, io.Discard)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, url, body string) (int, *report) {
	t.Helper()
	resp, err := http.Post(url, "text/html", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var rep report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return resp.StatusCode, &rep
}

func TestServeList(t *testing.T) {
	ts := newTestServer(t, config.New())

	status, body := get(t, ts.URL+"/fixtures")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var list []fixtureInfo
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Name != "card" || len(list[0].Templates) != 2 {
		t.Errorf("list = %+v", list)
	}
}

func TestServeRenderAndCheck(t *testing.T) {
	ts := newTestServer(t, config.New())

	status, markup := get(t, ts.URL+"/fixtures/card")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(markup, "<!--vg-part ") {
		t.Fatalf("markup has no open marker: %s", markup)
	}

	status, rep := post(t, ts.URL+"/check/card", markup)
	if status != http.StatusOK {
		t.Fatalf("check status = %d, want 200 (error %+v)", status, rep.Error)
	}
	if rep.Error != nil {
		t.Fatalf("unexpected error: %+v", rep.Error)
	}
	// root, the list, two items and their text parts
	if rep.Parts != 6 {
		t.Errorf("Parts = %d, want 6", rep.Parts)
	}
	if rep.Markers == 0 {
		t.Error("Markers = 0")
	}
	if rep.Shape == nil || len(rep.Shape.Children) != 1 || len(rep.Shape.Children[0].Children) != 2 {
		t.Errorf("Shape = %+v", rep.Shape)
	}

	// Checking the same markup again must succeed; each check uses a
	// fresh container.
	if status, _ := post(t, ts.URL+"/check/card", markup); status != http.StatusOK {
		t.Errorf("second check status = %d", status)
	}
}

func TestServeCheckMismatch(t *testing.T) {
	ts := newTestServer(t, config.New())

	_, markup := get(t, ts.URL+"/fixtures/card")
	tampered := strings.Replace(markup, "<!--vg-part ", "<!--vg-part 0", 1)

	status, rep := post(t, ts.URL+"/check/card", tampered)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	if rep.Error == nil || rep.Error.Code != "E020" {
		t.Errorf("Error = %+v, want E020", rep.Error)
	}
}

func TestServeUnknownFixture(t *testing.T) {
	ts := newTestServer(t, config.New())

	status, body := get(t, ts.URL+"/fixtures/missing")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if !strings.Contains(body, `"E061"`) {
		t.Errorf("body = %s", body)
	}
}

func TestServeMetrics(t *testing.T) {
	ts := newTestServer(t, config.New())

	_, markup := get(t, ts.URL+"/fixtures/card")
	post(t, ts.URL+"/check/card", markup)

	status, body := get(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	for _, want := range []string{
		`hydrate_passes_total{outcome="ok"} 1`,
		`hydrate_renders_total{outcome="ok"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServeMetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Metrics.Enabled = false
	ts := newTestServer(t, cfg)

	if status, _ := get(t, ts.URL+"/metrics"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestServeLive(t *testing.T) {
	ts := newTestServer(t, config.New())
	_, markup := get(t, ts.URL+"/fixtures/card")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live/card"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	for _, tt := range []struct {
		msg  string
		code string
	}{
		{markup, ""},
		{"", ""},
		{"<p>static</p>", "E012"},
		{dropLastClose(markup), "E013"},
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.msg)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
		var rep report
		if err := conn.ReadJSON(&rep); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		var code string
		if rep.Error != nil {
			code = rep.Error.Code
		}
		if code != tt.code {
			t.Errorf("check %.30q: code = %q, want %q", tt.msg, code, tt.code)
		}
	}
}

func TestServeLiveRejectsCrossOrigin(t *testing.T) {
	ts := newTestServer(t, config.New())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live/card"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	if err == nil {
		t.Fatal("Dial: expected error")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

// dropLastClose removes the root's close marker.
func dropLastClose(markup string) string {
	i := strings.LastIndex(markup, "<!--/vg-part-->")
	return markup[:i] + markup[i+len("<!--/vg-part-->"):]
}
