package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/catalog"
	"github.com/mrlokans/readinglists/internal/logging"
	"github.com/mrlokans/readinglists/internal/readinglists"
	"github.com/mrlokans/readinglists/internal/validation"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // per-field validation messages
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages"`
}

// Machine-readable error codes.
const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeDuplicateName       = "duplicate_name"
	CodeDuplicateMembership = "duplicate_membership"
	CodeInvalidBook         = "invalid_book"
	CodeForbidden           = "forbidden"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	zap.L().Error("internal error",
		zap.String("context", context),
		zap.String("request_id", logging.RequestID(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondDomainError maps errors returned by the services to HTTP responses.
// Anything unrecognised is treated as an internal error.
func respondDomainError(c *gin.Context, err error, context string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: CodeValidation, Details: verr.Fields})
	case errors.Is(err, readinglists.ErrNotFoundOrForbidden),
		errors.Is(err, readinglists.ErrItemNotFound),
		errors.Is(err, catalog.ErrBookNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound})
	case errors.Is(err, readinglists.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeDuplicateName})
	case errors.Is(err, readinglists.ErrDuplicateMembership):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeDuplicateMembership})
	case errors.Is(err, readinglists.ErrBookNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book", Code: CodeInvalidBook})
	case errors.Is(err, catalog.ErrNotBookOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: CodeForbidden})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondNoContent sends an empty 204 response.
func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page and limit query parameters.
// Limit is clamped to [1, maxLimit] and falls back to defaultLimit.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}
