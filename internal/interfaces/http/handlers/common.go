// Package handlers contains the gin HTTP handlers for the public API.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps application-level errors to HTTP status codes.  Unknown
// error types are masked as an internal error so that implementation details
// never leak to clients.
func respondError(c *gin.Context, err error) {
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		c.JSON(errors.HTTPStatusForCode(ae.Code), ErrorResponse{
			Code:    string(ae.Code),
			Message: ae.Message,
			Detail:  ae.Detail,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    string(errors.ErrCodeInternal),
		Message: "internal server error",
	})
}

// parsePagination extracts page and page_size from query parameters, clamping
// them to sane bounds.
func parsePagination(c *gin.Context) common.Pagination {
	p := common.Pagination{Page: 1, PageSize: 20}

	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			p.PageSize = n
		}
	}
	return p
}
