package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "FolioPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into a 500 and logs it with the stack.
// Nothing is written when the response was already committed.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				l.Error("panic recovered",
					applogger.String("method", c.Request().Method),
					applogger.String("path", c.Request().URL.Path),
					applogger.Error(perr),
					applogger.String("stack", string(debug.Stack())),
				)
				if !c.Response().Committed {
					err = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(perr)
				}
			}()
			return next(c)
		}
	}
}
