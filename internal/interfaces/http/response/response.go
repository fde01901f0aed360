package response

import (
	"github.com/gin-gonic/gin"

	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/pkg/utils"
)

// Success sends {"success":true,"data":...}
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// SuccessWithMessage adds a human readable message to the envelope.
func SuccessWithMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// Paginated sends a page of items with its pagination metadata.
func Paginated(c *gin.Context, status int, items interface{}, meta utils.PaginationMeta) {
	c.JSON(status, gin.H{
		"success":    true,
		"data":       items,
		"pagination": meta,
	})
}

// Error maps err to its HTTP status. Errors that are not AppErrors become
// a generic 500.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.AsAppError(err)
	c.JSON(appErr.Code, gin.H{
		"success": false,
		"code":    appErr.Code,
		"message": appErr.Error(),
	})
}

// ErrorWithStatus sends an error envelope without going through AppError.
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"code":    status,
		"message": message,
	})
}
