package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.scopes)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Scope("").Register(g)
	r.Setup()

	assert.Equal(t, http.StatusOK, perform(engine, "GET", "/api/v2/test/ping").Code)
	assert.Equal(t, http.StatusNotFound, perform(engine, "GET", "/api/v1/test/ping").Code)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Scope("").Register(group)
	r.Setup()

	w := perform(engine, "GET", "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestScopeMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	requireKey := func(c *gin.Context) {
		if c.GetHeader("X-API-Key") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}

	public := NewDomainGroup("catalog", "/catalog")
	public.GET("/products", func(c *gin.Context) { c.String(http.StatusOK, "products") })

	admin := NewDomainGroup("staff", "/staff")
	admin.GET("", func(c *gin.Context) { c.String(http.StatusOK, "staff") })

	r.Scope("/store").Register(public)
	r.Scope("/admin", requireKey).Register(admin)
	r.Setup()

	assert.Equal(t, http.StatusOK, perform(engine, "GET", "/api/v1/store/catalog/products").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(engine, "GET", "/api/v1/admin/staff").Code)

	req := httptest.NewRequest("GET", "/api/v1/admin/staff", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScopeMiddlewareDoesNotLeak(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }

	open := NewDomainGroup("open", "/open")
	open.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	locked := NewDomainGroup("locked", "/locked")
	locked.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.Scope("/a", deny).Register(locked)
	r.Scope("/b").Register(open)
	r.Setup()

	assert.Equal(t, http.StatusForbidden, perform(engine, "GET", "/api/v1/a/locked").Code)
	assert.Equal(t, http.StatusOK, perform(engine, "GET", "/api/v1/b/open").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("registers each HTTP method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			PATCH("/items/:id", ok).
			DELETE("/items/:id", ok)

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		tests := []struct {
			method string
			path   string
		}{
			{"GET", "/api/v1/test/items"},
			{"POST", "/api/v1/test/items"},
			{"PUT", "/api/v1/test/items/123"},
			{"PATCH", "/api/v1/test/items/123"},
			{"DELETE", "/api/v1/test/items/123"},
		}
		for _, tt := range tests {
			assert.Equal(t, http.StatusOK, perform(engine, tt.method, tt.path).Code,
				"%s %s should be registered", tt.method, tt.path)
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})

		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		w := perform(engine, "GET", "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("catalog", "/catalog")

		products := g.Group("products", "/products")
		products.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "products list")
		})

		categories := g.Group("categories", "/categories")
		categories.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "categories list")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		w1 := perform(engine, "GET", "/api/v1/catalog/products")
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "products list", w1.Body.String())

		w2 := perform(engine, "GET", "/api/v1/catalog/categories")
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "categories list", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "products")
	})

	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "customers")
	})

	r.Scope("").Register(catalog, customers)
	r.Setup()

	w1 := perform(engine, "GET", "/api/v1/catalog/products")
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "products", w1.Body.String())

	w2 := perform(engine, "GET", "/api/v1/customers")
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "customers", w2.Body.String())
}
