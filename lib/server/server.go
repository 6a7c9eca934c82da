package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ValentinKolb/dState/lib/codec"
	"github.com/ValentinKolb/dState/lib/common"
	"github.com/ValentinKolb/dState/lib/demo"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/tidwall/jsonc"
)

var Logger = logger.GetLogger("server")

// maxBodySize limits the size of a state document accepted by /decode
const maxBodySize = 16 << 20

// StateServer exposes a codec over HTTP so that a UI client can exchange
// state documents with the application:
//
//	POST /decode/{type}  deserialize the body into a root type, answer with
//	                     the canonical serialization
//	GET  /encode/{sample} serialize a built-in sample state
//	GET  /modules        list the candidate modules and their entries
//	GET  /metrics        request metrics in Prometheus text format
//
// Codec errors are answered with 400 and an ErrorResponse body.
type StateServer struct {
	config  common.ServerConfig
	codec   *codec.Codec
	metrics *metrics.Set
	mux     *http.ServeMux
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// ModuleResponse describes one candidate module.
type ModuleResponse struct {
	Name      string          `json:"name"`
	Namespace string          `json:"namespace"`
	Default   bool            `json:"default"`
	Entries   []EntryResponse `json:"entries"`
}

type EntryResponse struct {
	Tag       string `json:"tag"`
	Qualified string `json:"qualified"`
	GoType    string `json:"goType"`
	Pointer   bool   `json:"pointer"`
}

// NewStateServer creates a server for the given codec.
//
// Usage:
//
//	s := server.NewStateServer(*config, c)
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewStateServer(config common.ServerConfig, c *codec.Codec) *StateServer {
	s := &StateServer{
		config:  config,
		codec:   c,
		metrics: metrics.NewSet(),
		mux:     http.NewServeMux(),
	}

	s.handle("POST /decode/{type}", "decode", s.handleDecode)
	s.handle("GET /encode/{sample}", "encode", s.handleEncode)
	s.handle("GET /modules", "modules", s.handleModules)
	s.mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		s.metrics.WritePrometheus(w)
	})

	Logger.Infof("Created state server")
	return s
}

// Handler returns the HTTP handler of the server.
func (s *StateServer) Handler() http.Handler {
	return s.mux
}

// Serve listens on the configured endpoint. It blocks until the listener fails.
func (s *StateServer) Serve() error {
	Logger.Infof("Starting HTTP server on %s", s.config.Endpoint)
	return http.ListenAndServe(s.config.Endpoint, s.mux)
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

func (s *StateServer) handleDecode(w http.ResponseWriter, r *http.Request) int {
	target, err := demo.NewRoot(r.PathValue("type"))
	if err != nil {
		return writeError(w, http.StatusNotFound, err)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	defer r.Body.Close()
	if err != nil {
		return writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
	}

	if err := s.codec.Deserialize(jsonc.ToJSON(body), target); err != nil {
		return writeError(w, http.StatusBadRequest, err)
	}
	data, err := s.codec.Serialize(target)
	if err != nil {
		return writeError(w, http.StatusBadRequest, err)
	}
	return writeJSON(w, http.StatusOK, data)
}

func (s *StateServer) handleEncode(w http.ResponseWriter, r *http.Request) int {
	sample, err := demo.GetSample(r.PathValue("sample"))
	if err != nil {
		return writeError(w, http.StatusNotFound, err)
	}
	data, err := s.codec.Serialize(sample.New())
	if err != nil {
		return writeError(w, http.StatusBadRequest, err)
	}
	return writeJSON(w, http.StatusOK, data)
}

func (s *StateServer) handleModules(w http.ResponseWriter, _ *http.Request) int {
	modules := s.codec.Modules()
	resp := make([]ModuleResponse, 0, len(modules))
	for i, m := range modules {
		mr := ModuleResponse{Name: m.Name(), Namespace: m.Namespace(), Default: i == 0}
		for _, e := range m.Entries() {
			mr.Entries = append(mr.Entries, EntryResponse{
				Tag:       e.Tag,
				Qualified: e.Qualified,
				GoType:    e.Type.String(),
				Pointer:   e.Pointer,
			})
		}
		resp = append(resp, mr)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return writeError(w, http.StatusInternalServerError, err)
	}
	return writeJSON(w, http.StatusOK, data)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// handle registers a handler that reports its status code and records
// request metrics for the route
func (s *StateServer) handle(pattern, route string, h func(http.ResponseWriter, *http.Request) int) {
	duration := s.metrics.GetOrCreateHistogram(fmt.Sprintf(`dstate_request_duration_seconds{route=%q}`, route))

	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := h(w, r)
		elapsed := time.Since(start)

		duration.UpdateDuration(start)
		s.metrics.GetOrCreateCounter(fmt.Sprintf(`dstate_requests_total{route=%q,status="%d"}`, route, status)).Inc()
		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, status, elapsed)
	})
}

func writeJSON(w http.ResponseWriter, status int, data []byte) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		Logger.Warningf("failed to write response: %v", err)
	}
	return status
}

func writeError(w http.ResponseWriter, status int, err error) int {
	resp := ErrorResponse{Kind: "Error", Message: err.Error()}
	var cerr *codec.Error
	if errors.As(err, &cerr) {
		resp.Kind, resp.Path = cerr.Kind.String(), cerr.Path
	}
	data, _ := json.Marshal(resp)
	return writeJSON(w, status, data)
}
