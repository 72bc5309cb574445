package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglists/internal/entities"
)

// AuditReader lists a user's audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, userID uint, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	auditService AuditReader
}

func NewAuditController(auditService AuditReader) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns the current user's audit events, newest first.
// Optional query parameters: page, limit (max 100), type.
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	userID := GetUserID(c)
	page, limit := parsePagination(c, 25, 100)
	eventType := entities.AuditEventType(c.Query("type"))
	offset := (page - 1) * limit

	events, total, err := ac.auditService.GetEvents(c.Request.Context(), userID, eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "get audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
