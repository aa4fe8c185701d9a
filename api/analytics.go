package api

import (
	"time"

	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 消费统计处理器
type AnalyticsHandler struct {
	svc *service.ExpenseService
}

// NewAnalyticsHandler 创建消费统计处理器
func NewAnalyticsHandler(svc *service.ExpenseService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// AverageResponse 平均值统计返回
type AverageResponse struct {
	StartTime string  `json:"start_time" example:"2025-01-01"`
	EndTime   string  `json:"end_time" example:"2025-12-31"`
	Average   float64 `json:"average" example:"75.0"`
}

// parseRange 解析 start_time / end_time 参数（均必填，格式 2006-01-02）
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")

	if startTimeStr == "" || endTimeStr == "" {
		BadRequest(c, "请提供开始时间和结束时间")
		return time.Time{}, time.Time{}, false
	}

	startTime, err := time.ParseInLocation("2006-01-02", startTimeStr, time.Local)
	if err != nil {
		BadRequest(c, "开始时间格式错误，应为: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	endTime, err := time.ParseInLocation("2006-01-02", endTimeStr, time.Local)
	if err != nil {
		BadRequest(c, "结束时间格式错误，应为: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	return startTime, endTime, true
}

// TotalExpenses 获取消费记录总数
// @Summary 获取消费记录总数
// @Description 统计当前所有消费记录的条数
// @Tags 统计
// @Produce json
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/analytics/total-expenses [get]
func (h *AnalyticsHandler) TotalExpenses(c *gin.Context) {
	count, err := h.svc.TotalCount()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, gin.H{"total_count": count})
}

// MostExpensive 获取金额最大的消费记录
// @Summary 获取金额最大的消费记录
// @Description 返回金额最大的一条消费记录，金额相同时取 ID 较小的一条
// @Tags 统计
// @Produce json
// @Success 200 {object} Response{data=ExpenseResponse} "获取成功"
// @Failure 404 {object} Response "暂无消费记录"
// @Router /api/v1/analytics/most-expensive [get]
func (h *AnalyticsHandler) MostExpensive(c *gin.Context) {
	expense, err := h.svc.MostExpensive()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if expense == nil {
		NotFound(c, "暂无消费记录")
		return
	}
	Success(c, toExpenseResponse(*expense))
}

// LeastExpensive 获取金额最小的消费记录
// @Summary 获取金额最小的消费记录
// @Description 返回金额最小的一条消费记录，金额相同时取 ID 较小的一条
// @Tags 统计
// @Produce json
// @Success 200 {object} Response{data=ExpenseResponse} "获取成功"
// @Failure 404 {object} Response "暂无消费记录"
// @Router /api/v1/analytics/least-expensive [get]
func (h *AnalyticsHandler) LeastExpensive(c *gin.Context) {
	expense, err := h.svc.LeastExpensive()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if expense == nil {
		NotFound(c, "暂无消费记录")
		return
	}
	Success(c, toExpenseResponse(*expense))
}

// AverageDaily 获取日均消费
// @Summary 获取日均消费
// @Description 统计时间范围内（含边界，结束日计入整天）每个自然日消费之和的算术平均值，范围内无记录时返回 0
// @Tags 统计
// @Produce json
// @Param start_time query string true "开始时间 (2025-01-01)"
// @Param end_time query string true "结束时间 (2025-12-31)"
// @Success 200 {object} Response{data=AverageResponse} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/analytics/average-daily [get]
func (h *AnalyticsHandler) AverageDaily(c *gin.Context) {
	startTime, endTime, ok := parseRange(c)
	if !ok {
		return
	}
	avg, err := h.svc.AverageDaily(startTime, endTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, AverageResponse{
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
		Average:   avg,
	})
}

// AverageMonthly 获取月均消费
// @Summary 获取月均消费
// @Description 统计时间范围内按 (年, 月) 分组的消费之和的算术平均值，范围内无记录时返回 0
// @Tags 统计
// @Produce json
// @Param start_time query string true "开始时间 (2025-01-01)"
// @Param end_time query string true "结束时间 (2025-12-31)"
// @Success 200 {object} Response{data=AverageResponse} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/analytics/average-monthly [get]
func (h *AnalyticsHandler) AverageMonthly(c *gin.Context) {
	startTime, endTime, ok := parseRange(c)
	if !ok {
		return
	}
	avg, err := h.svc.AverageMonthly(startTime, endTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, AverageResponse{
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
		Average:   avg,
	})
}

// AverageYearly 获取年均消费
// @Summary 获取年均消费
// @Description 统计时间范围内按年分组的消费之和的算术平均值，范围内无记录时返回 0
// @Tags 统计
// @Produce json
// @Param start_time query string true "开始时间 (2025-01-01)"
// @Param end_time query string true "结束时间 (2025-12-31)"
// @Success 200 {object} Response{data=AverageResponse} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/analytics/average-yearly [get]
func (h *AnalyticsHandler) AverageYearly(c *gin.Context) {
	startTime, endTime, ok := parseRange(c)
	if !ok {
		return
	}
	avg, err := h.svc.AverageYearly(startTime, endTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, AverageResponse{
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
		Average:   avg,
	})
}
