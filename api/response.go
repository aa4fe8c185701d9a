package api

import (
	"errors"
	"net/http"

	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// DomainError 把领域错误映射到对应的状态码。
// 预算类错误和无效类别是用户错误（400）；记录不存在是 404；
// 总预算未配置属于部署配置问题，按服务器错误（500）处理
func DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrCategoryBudgetExceeded),
		errors.Is(err, service.ErrOverallBudgetExceeded):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrBudgetNotConfigured):
		InternalError(c, err.Error())
	default:
		InternalError(c, SafeErrorMessage(err, "服务器内部错误"))
	}
}
