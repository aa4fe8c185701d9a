package api

import (
	"strconv"
	"strings"
	"time"

	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	svc *service.ExpenseService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"99.99"`
	Date        string  `json:"date" binding:"required" example:"2025-01-15 12:30:00"`
	Description string  `json:"description" binding:"required" example:"午餐"`
	CategoryID  uint    `json:"category_id" binding:"required,gt=0" example:"1"`
}

// UpdateExpenseRequest 更新消费记录请求，未提供的字段保留原值
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0" example:"99.99"`
	Date        *string  `json:"date" example:"2025-01-15 12:30:00"`
	Description *string  `json:"description" binding:"omitempty,min=1" example:"午餐"`
	CategoryID  *uint    `json:"category_id" binding:"omitempty,gt=0" example:"1"`
}

// ExpenseListRequest 消费记录列表请求
type ExpenseListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	CategoryID uint   `form:"category_id" example:"1"`
	StartTime  string `form:"start_time" example:"2025-01-01"`
	EndTime    string `form:"end_time" example:"2025-12-31"`
}

// ExpenseResponse 消费记录响应结构
type ExpenseResponse struct {
	ID           uint    `json:"id" example:"1"`
	Amount       float64 `json:"amount" example:"99.99"`
	Date         string  `json:"date" example:"2025-01-15 12:30:00"`
	Description  string  `json:"description" example:"午餐"`
	CategoryID   uint    `json:"category_id" example:"1"`
	CategoryName string  `json:"category_name" example:"食品杂货"`
	CreatedAt    string  `json:"created_at" example:"2025-01-15 12:30:00"`
}

// toExpenseResponse 持久化记录到响应结构的逐字段转换
func toExpenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		Amount:       e.Amount,
		Date:         e.Date.Format("2006-01-02 15:04:05"),
		Description:  e.Description,
		CategoryID:   e.CategoryID,
		CategoryName: e.Category.Name,
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toExpenseResponses(expenses []models.Expense) []ExpenseResponse {
	list := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		list = append(list, toExpenseResponse(e))
	}
	return list
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录。创建前校验类别预算和总预算，恰好用满预算是允许的，超出则拒绝。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=ExpenseResponse} "创建成功"
// @Failure 400 {object} Response "参数错误 / 无效类别 / 超出预算"
// @Failure 500 {object} Response "总预算未配置或服务器错误"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		BadRequest(c, "描述不能为空")
		return
	}

	// 解析时间
	date, err := time.ParseInLocation("2006-01-02 15:04:05", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
		return
	}

	expense := models.Expense{
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}

	created, err := h.svc.Create(&expense)
	if err != nil {
		DomainError(c, err)
		return
	}

	// Create 返回的记录未预加载类别，重新查询一次带出类别名称
	stored, err := h.svc.Get(created.ID)
	if err != nil {
		DomainError(c, err)
		return
	}
	SuccessWithMessage(c, "创建成功", toExpenseResponse(*stored))
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取消费记录列表，支持分页、类别和时间范围筛选
// @Tags 消费记录
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param category_id query int false "类别筛选"
// @Param start_time query string false "开始时间 (2025-01-01)"
// @Param end_time query string false "结束时间 (2025-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]ExpenseResponse}} "获取成功"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	// 时间范围筛选
	var startTime, endTime *time.Time
	if req.StartTime != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartTime, time.Local); err == nil {
			startTime = &t
		}
	}
	if req.EndTime != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndTime, time.Local); err == nil {
			// 包含结束日期当天
			t = t.Add(24*time.Hour - time.Second)
			endTime = &t
		}
	}

	offset := (req.Page - 1) * req.PageSize
	expenses, total, err := h.svc.List(req.CategoryID, startTime, endTime, offset, req.PageSize)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     toExpenseResponses(expenses),
	})
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Description 根据ID获取消费记录详情
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response{data=ExpenseResponse} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	expense, err := h.svc.Get(uint(id))
	if err != nil {
		DomainError(c, err)
		return
	}
	Success(c, toExpenseResponse(*expense))
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 部分更新指定的消费记录：只覆盖请求中提供的字段。合并后重新校验预算，统计总额时排除本条记录的旧金额。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param id path int true "消费记录ID"
// @Param request body UpdateExpenseRequest true "要更新的字段"
// @Success 200 {object} Response{data=ExpenseResponse} "更新成功"
// @Failure 400 {object} Response "参数错误 / 无效类别 / 超出预算"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	input := service.UpdateExpenseInput{
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			BadRequest(c, "描述不能为空")
			return
		}
		input.Description = &desc
	}
	if req.Date != nil {
		date, err := time.ParseInLocation("2006-01-02 15:04:05", *req.Date, time.Local)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
			return
		}
		input.Date = &date
	}

	updated, err := h.svc.Update(uint(id), input)
	if err != nil {
		DomainError(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", toExpenseResponse(*updated))
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除指定的消费记录。删除只会减少各项总额，不做预算校验。
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	if err := h.svc.Delete(uint(id)); err != nil {
		DomainError(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
