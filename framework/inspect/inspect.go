// Package inspect serves a read-mostly JSON view of a container.
package inspect

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/routing"
	"github.com/km-arc/go-inject/framework/validation"
)

// EntityView is the JSON shape of one entity.
type EntityView struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	DependsOn []string `json:"depends_on"`
	Tags      []string `json:"tags"`
	Resolved  bool     `json:"resolved"`
	Value     any      `json:"value"`
}

// View describes e. Values that JSON cannot carry faithfully are rendered
// as text: Stringers and errors by their own method, references by type
// name, anything else with %v.
func View(e *container.Entity) EntityView {
	v, resolved := e.State().Get()
	deps := e.DependsOn()
	if deps == nil {
		deps = []string{}
	}
	tags := e.Tags()
	if tags == nil {
		tags = []string{}
	}
	return EntityView{
		Name:      e.Name(),
		Kind:      e.Kind(),
		DependsOn: deps,
		Tags:      tags,
		Resolved:  resolved,
		Value:     render(v),
	}
}

func render(v any) any {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return fmt.Sprintf("<%T>", v)
	}
	switch t := v.(type) {
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("<%T>", v)
	}
	return fmt.Sprintf("%v", v)
}

var nameRules = validation.Rules{"name": "required|name|max:255"}

// Handler serves the inspection endpoints for one container.
type Handler struct {
	app *container.Container
	log *zap.Logger
	// Metrics, when set, is mounted at MetricsPath.
	Metrics     http.Handler
	MetricsPath string
}

// New returns a Handler for app. A nil logger discards output.
func New(app *container.Container, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{app: app, log: log, MetricsPath: "/metrics"}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r *routing.Router) {
	r.Group(func(api *routing.Router) {
		api.Middleware(middleware.NoCache)
		api.Get("/healthz", h.Health)
		api.Get("/entities", h.List)
		api.Get("/entities/{name}", h.Show)
		api.Post("/entities/{name}/resolve", h.Resolve)
		api.Post("/bootstrap", h.Bootstrap)
	})
	if h.Metrics != nil && h.MetricsPath != "" {
		r.Handle(h.MetricsPath, h.Metrics)
	}
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(map[string]string{"status": "ok"})
}

// List returns every entity in registration order. Optional filters:
// ?kind=constant|factory, ?tag=name, ?resolved=true|false.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	filters := validation.Make(map[string]string{
		"kind":     req.Query("kind"),
		"resolved": req.Query("resolved"),
	}, validation.Rules{
		"kind":     "nullable|in:constant,factory",
		"resolved": "nullable|boolean",
	})
	if filters.Fails() {
		res.ValidationError(filters.Errors())
		return
	}

	kind, tag := req.Query("kind"), req.Query("tag")
	resolved, byResolved := req.QueryBool("resolved")
	byTag := req.Has("tag")

	views := []EntityView{}
	for _, e := range h.app.Entities() {
		v := View(e)
		if kind != "" && v.Kind != kind {
			continue
		}
		if byResolved && v.Resolved != resolved {
			continue
		}
		if byTag && !contains(v.Tags, tag) {
			continue
		}
		views = append(views, v)
	}
	res.Success(views)
}

// Show returns one entity by name or alias.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	gohttp.NewResponse(w).Success(View(e))
}

// Resolve resolves one entity on demand.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if _, err := h.app.Resolve(e); err != nil {
		h.fail(w, r, err)
		return
	}
	gohttp.NewResponse(w).Success(View(e))
}

// Bootstrap resolves every entity.
func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	if err := h.app.BootstrapAll(); err != nil {
		h.fail(w, r, err)
		return
	}
	entities := h.app.Entities()
	resolved := 0
	for _, e := range entities {
		if e.State().IsResolved() {
			resolved++
		}
	}
	gohttp.NewResponse(w).Success(map[string]int{
		"resolved": resolved,
		"total":    len(entities),
	})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*container.Entity, bool) {
	name := gohttp.NewRequest(r).RouteParam("name")
	res := gohttp.NewResponse(w)

	v := validation.Make(map[string]string{"name": name}, nameRules)
	if v.Fails() {
		res.ValidationError(v.Errors())
		return nil, false
	}
	e, ok := h.app.GetModule(name)
	if !ok {
		res.NotFound((&container.NotFoundError{Name: name}).Error())
		return nil, false
	}
	return e, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	var cycle *container.CircularDependencyError
	if errors.As(err, &cycle) {
		res.Conflict(err.Error(), cycle.Path)
		return
	}
	h.log.Error("resolution failed",
		zap.String("method", req.Method()),
		zap.String("path", req.Path()),
		zap.Error(err))
	res.ServerError(err.Error())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
