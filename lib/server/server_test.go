package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ValentinKolb/dState/lib/codec"
	"github.com/ValentinKolb/dState/lib/common"
	"github.com/ValentinKolb/dState/lib/demo"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	modules, err := demo.Modules(demo.ComponentsModule, demo.LayoutModule)
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	s := NewStateServer(common.ServerConfig{Endpoint: "127.0.0.1:0"}, codec.New(modules...))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(data)
}

func TestDecode(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
		kind   string
	}{
		{
			name:   "canonical output",
			path:   "/decode/Button",
			body:   `{"Text":"ok","Type":"Button"}`,
			status: http.StatusOK,
			want:   `{"Type":"Button","Name":"","Text":"ok","Enabled":false,"OnClick":null}`,
		},
		{
			name:   "comments are accepted",
			path:   "/decode/Label",
			body:   "{\n  // caption\n  \"Text\": \"hi\",\n}",
			status: http.StatusOK,
			want:   `{"Type":"","Name":"","Text":"hi","Size":0}`,
		},
		{
			name:   "ambiguous discriminator",
			path:   "/decode/Page",
			body:   `{"Content":[{"Type":"Label"}]}`,
			status: http.StatusBadRequest,
			kind:   "AmbiguousType",
		},
		{
			name:   "qualified discriminator",
			path:   "/decode/Page",
			body:   `{"Content":[{"Type":"Label","TypeCSharp":"DState.Layout.Label","Text":"x"}]}`,
			status: http.StatusOK,
		},
		{
			name:   "unknown root type",
			path:   "/decode/Table",
			body:   `{}`,
			status: http.StatusNotFound,
			kind:   "Error",
		},
		{
			name:   "malformed json",
			path:   "/decode/Page",
			body:   `{"Title":`,
			status: http.StatusBadRequest,
			kind:   "InvalidJSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, http.MethodPost, ts.URL+tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%s)", status, tt.status, body)
			}
			if tt.want != "" && body != tt.want {
				t.Errorf("body = %s, want %s", body, tt.want)
			}
			if tt.kind != "" {
				var resp ErrorResponse
				if err := json.Unmarshal([]byte(body), &resp); err != nil {
					t.Fatalf("error body %s: %v", body, err)
				}
				if resp.Kind != tt.kind {
					t.Errorf("kind = %s, want %s", resp.Kind, tt.kind)
				}
			}
		})
	}
}

func TestEncode(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/encode/empty", "")
	want := `{"Title":"","ID":"00000000-0000-0000-0000-000000000000","Theme":0,"Version":null,` +
		`"Content":[],"Focus":null,"Properties":{},"Extras":{},"Counter":{}}`
	if status != http.StatusOK || body != want {
		t.Errorf("GET /encode/empty = %d %s", status, body)
	}

	status, body = do(t, http.MethodGet, ts.URL+"/encode/integer", "")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Message != codec.MsgUnsupportedObjectType || resp.Path != "$.Content[1]" {
		t.Errorf("unexpected error response: %+v", resp)
	}
}

func TestModulesAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/modules", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var modules []ModuleResponse
	if err := json.Unmarshal([]byte(body), &modules); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(modules) != 2 || !modules[0].Default || modules[0].Name != demo.ComponentsModule {
		t.Errorf("unexpected modules: %+v", modules)
	}

	status, body = do(t, http.MethodGet, ts.URL+"/metrics", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `dstate_requests_total{route="modules",status="200"} 1`) {
		t.Errorf("request counter missing:\n%s", body)
	}
}
