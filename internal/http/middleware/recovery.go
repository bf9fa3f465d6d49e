// README: Recovery middleware; turns handler panics into a 500 response.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(logrus.Fields{
					"panic":      rec,
					"path":       c.Request.URL.Path,
					"request_id": RequestIDFrom(c),
				}).Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code":        "INTERNAL_ERROR",
					"error_description": "Erro interno",
				})
			}
		}()
		c.Next()
	}
}
