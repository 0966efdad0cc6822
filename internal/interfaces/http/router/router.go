// Package router wires versioned API route groups onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers routes onto a gin router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router builds the versioned API surface. Routes are grouped into scopes,
// each scope carrying its own middleware chain (public storefront routes
// resolve the store from the request host, admin routes require a JWT,
// platform routes additionally require a platform role).
type Router struct {
	engine     *gin.Engine
	apiVersion string
	scopes     []*Scope
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Scope creates a route scope under the API version prefix. An empty prefix
// mounts the scope's registrars directly on /api/<version>.
func (r *Router) Scope(prefix string, middleware ...gin.HandlerFunc) *Scope {
	s := &Scope{prefix: prefix, middleware: middleware}
	r.scopes = append(r.scopes, s)
	return s
}

// Setup registers all scopes and their routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, s := range r.scopes {
		group := api.Group(s.prefix)
		if len(s.middleware) > 0 {
			group.Use(s.middleware...)
		}
		for _, registrar := range s.registrars {
			registrar.RegisterRoutes(group)
		}
	}
}

// Scope is a middleware boundary within the API surface
type Scope struct {
	prefix     string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// Register adds registrars to the scope
func (s *Scope) Register(registrars ...RouteRegistrar) *Scope {
	s.registrars = append(s.registrars, registrars...)
	return s
}

// DomainGroup collects the routes of one business domain so they can be
// registered as a unit.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []routeDefinition
	subgroups  []*DomainGroup
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		handlers: handlers,
	})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)

	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
