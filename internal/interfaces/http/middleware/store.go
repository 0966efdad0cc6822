package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/store"
	"github.com/multistore/backend/internal/infrastructure/logger"
	"github.com/multistore/backend/internal/interfaces/http/dto"
)

// Context keys set by the store middlewares.
const (
	ContextKeyResolvedStoreID = "store_id"
	ContextKeyStoreSlug       = "store_slug"
)

// StorefrontConfig configures public storefront store resolution.
type StorefrontConfig struct {
	Stores store.StoreRepository
	// BaseDomain is the platform domain; <subdomain>.<BaseDomain> maps to a
	// store. Hosts outside BaseDomain are treated as custom domains.
	BaseDomain string
	Logger     *zap.Logger
}

// Storefront resolves the target store for public storefront requests.
// Resolution order: X-Store-ID header, subdomain of the platform domain,
// full host as a custom domain. Requests to non-operational stores are
// rejected.
func Storefront(cfg StorefrontConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		st, err := resolveStorefrontStore(c, cfg)
		if err != nil {
			log.Debug("Storefront store resolution failed",
				zap.String("host", c.Request.Host),
				zap.Error(err),
			)
			abortWithStatus(c, http.StatusNotFound, dto.ErrCodeNotFound, "Store not found")
			return
		}

		if !st.IsOperational() {
			abortWithStatus(c, http.StatusForbidden, dto.ErrCodeStoreSuspended, "Store is currently unavailable")
			return
		}

		setStoreContext(c, st.ID, st.Slug)
		c.Next()
	}
}

func resolveStorefrontStore(c *gin.Context, cfg StorefrontConfig) (*store.Store, error) {
	ctx := c.Request.Context()

	if headerID := c.GetHeader("X-Store-ID"); headerID != "" {
		id, err := uuid.Parse(headerID)
		if err != nil {
			return nil, err
		}
		return cfg.Stores.FindByID(ctx, id)
	}

	host := hostWithoutPort(c.Request.Host)
	if cfg.BaseDomain != "" && strings.HasSuffix(host, "."+cfg.BaseDomain) {
		sub := strings.TrimSuffix(host, "."+cfg.BaseDomain)
		// Nested subdomains (a.b.example.com) are not store handles.
		if sub != "" && !strings.Contains(sub, ".") {
			return cfg.Stores.FindByDomain(ctx, sub)
		}
	}

	return cfg.Stores.FindByDomain(ctx, host)
}

func hostWithoutPort(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 {
		return strings.ToLower(host[:i])
	}
	return strings.ToLower(host)
}

// StoreScope binds admin requests to their store. Store-bound tokens carry
// the store in their claims; platform administrators select one via the
// X-Store-ID header.
func StoreScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := GetJWTStoreID(c)

		if storeID == "" {
			storeID = c.GetHeader("X-Store-ID")
			if storeID == "" {
				abortWithStatus(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "X-Store-ID header is required for platform administrators")
				return
			}
		}

		id, err := uuid.Parse(storeID)
		if err != nil {
			abortWithStatus(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid store ID")
			return
		}

		setStoreContext(c, id, "")
		c.Next()
	}
}

func setStoreContext(c *gin.Context, id uuid.UUID, slug string) {
	c.Set(ContextKeyResolvedStoreID, id.String())
	if slug != "" {
		c.Set(ContextKeyStoreSlug, slug)
	}

	ctx, _ := logger.WithStoreID(c.Request.Context(), logger.FromContext(c.Request.Context()), id.String())
	c.Request = c.Request.WithContext(ctx)
}

// GetStoreID returns the resolved store ID or "".
func GetStoreID(c *gin.Context) string {
	return c.GetString(ContextKeyResolvedStoreID)
}

// GetStoreUUID returns the resolved store ID as a UUID.
func GetStoreUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(ContextKeyResolvedStoreID))
}
