package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flowread/api/model"
	"flowread/internal/models"
	"flowread/internal/segmenter"
)

// 定义应用中的错误类型常量
const (
	ErrorTypeValidation = "VALIDATION_ERROR" // 输入验证错误
	ErrorTypeNotFound   = "NOT_FOUND_ERROR"  // 资源不存在错误
	ErrorTypeInternal   = "INTERNAL_ERROR"   // 内部服务器错误
	ErrorTypeBusiness   = "BUSINESS_ERROR"   // 业务逻辑错误
)

// AppError 应用错误结构体
type AppError struct {
	Type    string // 错误类型
	Message string // 错误消息
	Details string // 详细错误信息
	Code    int    // HTTP状态码
}

// Error 实现error接口的方法
func (e AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewValidationError 创建输入验证错误
func NewValidationError(message string, details ...string) AppError {
	return AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    http.StatusBadRequest,
	}
}

// NewNotFoundError 创建资源不存在错误
func NewNotFoundError(message string) AppError {
	return AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// NewInternalError 创建内部服务器错误
func NewInternalError(message string, details ...string) AppError {
	return AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    http.StatusInternalServerError,
	}
}

// NewBusinessError 创建业务逻辑错误
func NewBusinessError(message string, details ...string) AppError {
	return AppError{
		Type:    ErrorTypeBusiness,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    http.StatusBadRequest,
	}
}

// MapDomainError 将领域错误转换为带HTTP语义的应用错误
// 未识别的错误统一按内部错误处理
func MapDomainError(err error) AppError {
	switch {
	case errors.Is(err, models.ErrDocumentNotFound):
		return NewNotFoundError("document not found")
	case errors.Is(err, models.ErrSessionNotFound):
		return NewNotFoundError("reading session not found")
	case errors.Is(err, segmenter.ErrNoText):
		return NewValidationError(segmenter.ErrNoText.Error())
	case errors.Is(err, models.ErrInvalidDocumentStatus):
		return NewBusinessError(err.Error())
	default:
		return NewInternalError("internal server error", err.Error())
	}
}

// ErrorMiddleware 统一错误处理中间件
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 捕获 panic
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				log.WithFields(logrus.Fields{
					FieldError: err,
					"stack":    stack,
					FieldPath:  c.Request.URL.Path,
				}).Error("Panic recovered in API request")

				errorResponse := model.NewErrorResponse(
					http.StatusInternalServerError,
					"An unexpected error occurred",
				)

				// 在开发环境中可以返回详细错误
				if gin.Mode() == gin.DebugMode {
					errorResponse.Message = fmt.Sprintf("Panic: %v", err)
				}

				if traceID, exists := c.Get("TraceID"); exists {
					errorResponse.TraceID = traceID.(string)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse)
			}
		}()

		c.Next()

		// 检查是否已经有错误被处理
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			traceID := ""
			if traceIDValue, exists := c.Get("TraceID"); exists {
				traceID = traceIDValue.(string)
			}

			var appErr AppError
			switch e := err.(type) {
			case AppError:
				appErr = e
			case *AppError:
				appErr = *e
			default:
				// 领域错误在这里统一映射
				appErr = MapDomainError(err)
			}

			log.WithFields(logrus.Fields{
				"error_type": appErr.Type,
				FieldTraceID: traceID,
				FieldPath:    c.Request.URL.Path,
			}).Error(appErr.Message)

			errResp := model.NewErrorResponse(appErr.Code, appErr.Message)
			errResp.TraceID = traceID

			c.JSON(appErr.Code, errResp)
			c.Abort()
		}
	}
}

// HandleError 在处理器中使用的错误处理辅助函数
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
}
