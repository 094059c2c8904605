package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/drakos74/opistocks/internal/metrics"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

// Handler serves a request with a payload and a status code.
// A non-nil error is reported with the given code, or 500 if the code is not an error code.
type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Path   string
	Method Method
	Exec   Handler
}

type Server struct {
	name    string
	port    int
	debug   bool
	origins []string
	routes  []Route
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:    name,
		port:    port,
		origins: []string{"*"},
		routes:  make([]Route, 0),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// Origins restricts the cross-origin requests to the given origins.
func (s *Server) Origins(origins ...string) *Server {
	if len(origins) > 0 {
		s.origins = origins
	}
	return s
}

// AddRoute adds the given route to the server
func (s *Server) AddRoute(method Method, path string, exec Handler) *Server {
	s.routes = append(s.routes, Route{
		Path:   path,
		Method: method,
		Exec:   exec,
	})
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

func (s *Server) handle(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if s.debug {
			log.Info().
				Str("method", r.Method).
				Str("route", route.Path).
				Str("url", r.URL.String()).
				Str("remote-address", r.RemoteAddr).
				Msg("started request")
		}
		b, code, err := route.Exec(r)
		if err != nil {
			if code < http.StatusBadRequest {
				code = http.StatusInternalServerError
			}
			s.error(w, err, code)
		} else {
			if code == 0 {
				code = http.StatusOK
			}
			s.respond(w, b, code)
		}
		metrics.Observer.Request(route.Path, code)
		log.Debug().
			Str("route", route.Path).
			Int("code", code).
			Float64("duration", time.Since(start).Seconds()).
			Msg("completed request")
	}
}

// Handler returns the router of the server routes, with cors enabled.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	for _, route := range s.routes {
		router.HandleFunc(route.Path, s.handle(route)).Methods(string(route.Method))
	}
	router.Handle("/metrics", metrics.Handler()).Methods(string(GET))
	return handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{string(GET), string(POST), "OPTIONS"}),
	)(router)
}

// Run starts the server
func (s *Server) Run() error {
	log.Info().Str("server", s.name).Int("port", s.port).Int("routes", len(s.routes)).Msg("starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler()); err != nil {
		return fmt.Errorf("could not start server '%s': %w", s.name, err)
	}
	return nil
}

func (s *Server) respond(w http.ResponseWriter, b []byte, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Error().Err(err).Int("code", code).Msg("error for http request")
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	s.respond(w, b, code)
}

func Live() Route {
	return Route{
		Path:   "/live",
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte("{}"), http.StatusOK, nil
		},
	}
}
