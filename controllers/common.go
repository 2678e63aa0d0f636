// controllers/common.go
package controllers

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/zahabshop/zahab_backend/models"
)

// internalError logs the underlying error and answers a generic 500. The
// error detail is only included in the body outside production, per the
// ENV flag.
func internalError(c echo.Context, message string, err error) error {
	c.Logger().Errorf("%s: %v", message, err)

	env := os.Getenv("ENV")
	if err != nil && (env == "development" || env == "dev") {
		message = message + ": " + err.Error()
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: message,
	})
}

// unauthorized answers 401 for requests that somehow reached a handler
// without a principal attached.
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.Response{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	})
}

// forbidden answers 403 with a policy denial reason.
func forbidden(c echo.Context, reason string) error {
	return c.JSON(http.StatusForbidden, models.Response{
		Status:  http.StatusForbidden,
		Message: reason,
	})
}
