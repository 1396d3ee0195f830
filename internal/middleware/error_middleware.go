package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"gotours/internal/apperrors"
	"gotours/internal/utils"
	"gotours/pkg/logger"
)

// ErrorHandler is the single place errors become responses. Handlers and
// earlier middleware attach errors with c.Error; after the chain runs, the
// last error is translated into the taxonomy and rendered. Development mode
// exposes the underlying error and a stack trace; production returns only
// operational messages and collapses the rest to a generic envelope.
func ErrorHandler(log *logger.Logger, isDev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.Translate(err)

		entry := log.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"code":   appErr.Code,
		})
		if !appErr.Operational {
			entry.WithError(err).Error("Unhandled error")
		} else if appErr.Code >= 500 {
			entry.WithError(err).Error("Request failed")
		} else {
			entry.Debug("Request rejected")
		}

		response := utils.APIResponse{
			Status:  appErr.Status(),
			Message: appErr.Message,
		}

		if isDev {
			response.Error = err.Error()
			response.Stack = string(debug.Stack())
		} else if !appErr.Operational {
			response.Message = "Something went very wrong!"
		}

		c.JSON(appErr.Code, response)
	}
}

// Recovery funnels panics into the error pipeline instead of killing the
// connection. Must be registered after ErrorHandler so the translated
// response still renders.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", fmt.Sprintf("%v", r)).Error("Recovered from panic")
				c.Error(apperrors.Internal(fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFoundHandler routes unknown paths through the error pipeline so they
// share the envelope format.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Error(apperrors.NotFoundf("Can't find %s on this server", c.Request.URL.Path))
	}
}
