// Package server exposes the sample object graph over HTTP with either echo
// or gin, encoding through the configured identifier-aware pipeline.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	idjson "github.com/reoring/idjson"
	"github.com/reoring/idjson/codec"
	"github.com/reoring/idjson/internal/config"
	"github.com/reoring/idjson/internal/version"
	"github.com/reoring/idjson/jsoniterx"
	"github.com/reoring/idjson/middleware"
	"github.com/reoring/idjson/openapi"
)

// MalformedHeader lists the members of a POST body that carried unparsable
// optional identifiers and were decoded as null.
const MalformedHeader = "X-Idjson-Malformed"

// Server owns the HTTP handler and the pipelines it encodes with.
type Server struct {
	cfg     config.Config
	log     *slog.Logger
	native  *idjson.Serializer
	codec   middleware.Codec
	doc     *openapi.Document
	handler http.Handler
}

// New builds the pipeline selected by cfg.Codec and the router selected by
// cfg.Server.Framework.
func New(cfg config.Config, log *slog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, log: log, doc: openapi.Build(version.String())}

	opts, err := cfg.Codec.SerializerOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, idjson.WithMalformedHandler(func(path idjson.FieldPath, raw string) {
		log.Warn("malformed optional identifier", "path", path.String(), "value", raw)
	}))
	s.native = codec.NewSerializer(opts...)

	switch cfg.Codec.Engine {
	case "jsoniter":
		indent := 0
		if cfg.Codec.Indent {
			indent = 2
		}
		s.codec = jsoniterx.New(jsoniterx.Options{
			Indent: indent,
			OnMalformed: func(field, raw string) {
				log.Warn("malformed optional identifier", "path", field, "value", raw)
			},
		})
	default:
		s.codec = s.native
	}

	switch cfg.Server.Framework {
	case "gin":
		s.handler = s.ginRouter()
	case "echo", "":
		s.handler = s.echoRouter()
	default:
		return nil, fmt.Errorf("server: unknown framework %q", cfg.Server.Framework)
	}
	return s, nil
}

func (s *Server) nativeEngine() bool { return s.cfg.Codec.Engine != "jsoniter" }

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.handler }

// Codec returns the pipeline used for request and response bodies.
func (s *Server) Codec() middleware.Codec { return s.codec }

// Run serves on cfg.Server.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()
	s.log.Info("listening",
		"addr", ln.Addr().String(),
		"framework", s.cfg.Server.Framework,
		"engine", s.cfg.Codec.Engine,
		"version", version.String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := hs.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequest(method, path string, status int, start time.Time) {
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(context.Background(), level, "request",
		"method", method,
		"path", path,
		"status", status,
		"duration", time.Since(start))
}

func malformedHeader(pm idjson.PresenceMap) string {
	paths := pm.MalformedPaths()
	if len(paths) == 0 {
		return ""
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return strings.Join(out, ",")
}

func (s *Server) openAPIYAML() ([]byte, error) { return s.doc.YAML() }
func (s *Server) openAPIJSON() ([]byte, error) { return s.doc.JSON() }
