// Package devserver is a small in-memory GraphQL data service that speaks
// the company operations the console issues. It backs `registry serve`
// and the end-to-end tests.
package devserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/logging"
)

// DefaultRateLimit is the per-IP request budget per minute.
const DefaultRateLimit = 600

type Server struct {
	router      *chi.Mux
	registry    *Registry
	requireAuth bool
	rateLimit   int
	logger      *slog.Logger
}

type Option func(*Server)

// WithAuth requires a token issued by the login mutation on every other
// operation.
func WithAuth() Option {
	return func(s *Server) { s.requireAuth = true }
}

func WithRateLimit(perMinute int) Option {
	return func(s *Server) { s.rateLimit = perMinute }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds the router around registry.
func New(registry *Registry, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		registry:  registry,
		rateLimit: DefaultRateLimit,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.accessLogger)
	r.Use(middleware.Recoverer)
	if s.rateLimit > 0 {
		r.Use(httprate.Limit(s.rateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Post(api.GraphQLPath, s.handleGraphQL)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type gqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []gqlError     `json:"errors,omitempty"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, gqlResponse{Errors: []gqlError{{Message: "malformed request body"}}})
		return
	}
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, gqlResponse{Errors: []gqlError{{Message: err.Error()}}})
		return
	}
	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		writeJSON(w, http.StatusBadRequest, gqlResponse{Errors: []gqlError{{Message: "operation not found"}}})
		return
	}

	authed := !s.requireAuth || s.registry.ValidToken(bearerToken(r))
	resp := gqlResponse{Data: map[string]any{}}
	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		key := api.RootField(ast.SelectionSet{field})
		args, err := arguments(field, req.Variables)
		if err == nil {
			if !authed && field.Name != "login" {
				err = goerr.New("Login required")
			} else {
				resp.Data[key], err = s.resolve(r.Context(), field.Name, args)
			}
		}
		if err != nil {
			s.logger.Warn("graphql resolver failed", append([]any{"field", field.Name}, logging.ErrAttrs(err)...)...)
			resp.Data[key] = nil
			resp.Errors = append(resp.Errors, gqlError{Message: err.Error(), Path: []any{key}})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) resolve(_ context.Context, field string, args map[string]any) (any, error) {
	switch field {
	case "companiesMain":
		return s.registry.List(listParams(args)), nil
	case "companyCounts":
		return s.registry.Counts(listParams(args)), nil
	case "companyDetail":
		company, ok := s.registry.Detail(stringField(args, "_id"))
		if !ok {
			return nil, nil
		}
		return company, nil
	case "fieldsDefaultColumnsConfig":
		return s.registry.Columns(), nil
	case "tags":
		return s.registry.Tags(stringField(args, "type")), nil
	case "companiesAdd":
		return s.registry.Create(args)
	case "companiesRemove":
		ids := stringSlice(args["companyIds"])
		s.registry.Remove(ids)
		return ids, nil
	case "companiesMerge":
		fields, _ := args["companyFields"].(map[string]any)
		id, err := s.registry.Merge(stringSlice(args["companyIds"]), fields)
		if err != nil {
			return nil, err
		}
		return map[string]any{"_id": id}, nil
	case "login":
		return s.registry.Login(stringField(args, "email"), stringField(args, "password"))
	default:
		return nil, goerr.New(`Cannot query field "`+field+`"`, goerr.V("field", field))
	}
}

// arguments resolves a field's arguments against the request variables.
// Arguments bound to absent variables are dropped.
func arguments(field *ast.Field, vars map[string]any) (map[string]any, error) {
	args := make(map[string]any, len(field.Arguments))
	for _, arg := range field.Arguments {
		v, err := arg.Value.Value(vars)
		if err != nil {
			return nil, goerr.Wrap(err, "resolve argument", goerr.V("argument", arg.Name))
		}
		if v == nil {
			continue
		}
		args[arg.Name] = v
	}
	return args, nil
}

func listParams(args map[string]any) api.ListParams {
	return api.ListParams{
		Page:        intField(args, "page"),
		PerPage:     intField(args, "perPage"),
		Segment:     stringField(args, "segment"),
		Tag:         stringField(args, "tag"),
		IDs:         stringSlice(args["ids"]),
		SearchValue: stringField(args, "searchValue"),
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
