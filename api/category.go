package api

import (
	"strconv"

	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 消费类别处理器。类别及其预算在初始化时写入，
// 接口只读，不提供修改预算的入口
type CategoryHandler struct {
	svc *service.ExpenseService
}

// NewCategoryHandler 创建消费类别处理器
func NewCategoryHandler(svc *service.ExpenseService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List 获取消费类别列表
// @Summary 获取消费类别列表
// @Description 获取所有消费类别及各自的预算上限
// @Tags 消费类别
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.Categories()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Get 获取单个消费类别
// @Summary 获取单个消费类别
// @Description 根据ID获取类别详情
// @Tags 消费类别
// @Produce json
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	category, err := h.svc.Category(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if category == nil {
		NotFound(c, "类别不存在")
		return
	}
	Success(c, category)
}
