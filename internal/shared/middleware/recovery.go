package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/shared/response"
)

// Recovery turns a handler panic into the standard error envelope. The stack
// goes to the log only; clients see the same shape every other error takes.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				response.InternalServerError(c, "Something went wrong")
				c.Abort()
			}
		}()

		c.Next()
	}
}
