package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/deskward/deskward/pkg/errors"
)

// Response is the envelope of every non-guard API reply.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta describes the page returned by a list endpoint.
type Meta struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// Denial is the flat payload written when an authorization guard rejects a request.
// Clients of the helpdesk front-ends read error directly, so it is not nested.
type Denial struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	Message       string   `json:"message,omitempty"`
	UserRole      string   `json:"userRole,omitempty"`
	RequiredRoles []string `json:"requiredRoles,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

// SuccessWithMeta fills TotalPages from Total and PerPage when the caller left it unset.
func SuccessWithMeta(c *gin.Context, statusCode int, data any, meta *Meta) {
	if meta != nil && meta.PerPage > 0 && meta.TotalPages == 0 {
		meta.TotalPages = (meta.Total + meta.PerPage - 1) / meta.PerPage
	}
	c.JSON(statusCode, Response{Success: true, Data: data, Meta: meta})
}

// Paginated writes a 200 list page.
func Paginated(c *gin.Context, data any, page, perPage int, total int64) {
	SuccessWithMeta(c, http.StatusOK, data, &Meta{Page: page, PerPage: perPage, Total: int(total)})
}

// Error renders err through its AppError. Only Code and Message reach the client; the full
// error is attached to the gin context so the access log can record the cause.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}
	_ = c.Error(err)

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: appErr.Code, Message: appErr.Message},
	})
}

// Deny aborts the chain with a flat denial payload.
func Deny(c *gin.Context, statusCode int, body Denial) {
	body.Success = false
	c.AbortWithStatusJSON(statusCode, body)
}
