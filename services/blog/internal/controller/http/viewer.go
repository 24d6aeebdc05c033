package http

import (
	"errors"
	"net/http"

	"threadboard/pkg/logger"
	"threadboard/pkg/middleware"
	"threadboard/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ViewerMiddleware resolves the authenticated user and their karma before the
// handler runs. A token for a user that no longer exists is treated as anonymous.
// Reads may see a cached user for up to the cache TTL; writes always check the store.
func ViewerMiddleware(karma usecase.KarmaUseCase, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		if userID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if isWrite(c.Request.Method) {
			ctx = usecase.StrictViewer(ctx)
		}

		viewer, err := karma.Viewer(ctx, userID)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthenticated) {
				c.Set(middleware.UserIDKey, "")
				c.Next()
				return
			}
			log.Error("Failed to resolve viewer %s: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(viewerKey, viewer)
		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
