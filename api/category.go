package api

import (
	"strconv"
	"strings"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 消费类别管理
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryCreateRequest 创建类别请求
type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50"`
	Color string `json:"color" binding:"omitempty,max=20"` // 颜色代码，如 #ef4444
}

// CategoryUpdateRequest 更新类别请求
type CategoryUpdateRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

// List 列出当前用户可见的类别
// @Summary 获取消费类别列表
// @Description 返回系统默认类别与当前用户自建类别，按名称排序
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Category
	if err := database.DB.Where("user_id = ? OR is_default = ?", userID, true).
		Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	SuccessWithCount(c, list, len(list))
}

// Get 获取单个类别
// @Summary 获取类别详情
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 401 {object} Response "无权访问该类别"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的类别ID")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	if !category.IsDefault && (category.UserID == nil || *category.UserID != userID) {
		Unauthorized(c, "无权访问该类别")
		return
	}

	Success(c, category)
}

// Create 创建类别
// @Summary 创建消费类别
// @Description 在当前用户范围内创建类别，名称在用户自建与默认类别中不可重复
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 201 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	// 唯一性：同名的自建类别或默认类别均视为冲突
	var existing models.Category
	if err := database.DB.Where("name = ? AND (user_id = ? OR is_default = ?)",
		req.Name, userID, true).First(&existing).Error; err == nil {
		BadRequest(c, "类别名称已存在")
		return
	}

	color := req.Color
	if color == "" {
		color = "#1976d2"
	}

	category := models.Category{
		Name:   req.Name,
		Color:  color,
		UserID: &userID,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}

	Created(c, category)
}

// Update 更新类别
// @Summary 更新消费类别
// @Description 更新当前用户自建的类别，系统默认类别不可修改
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "更新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Failure 401 {object} Response "无权修改该类别"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的类别ID")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	if category.IsDefault {
		Unauthorized(c, "系统默认类别不可修改")
		return
	}
	if category.UserID == nil || *category.UserID != userID {
		Unauthorized(c, "无权修改该类别")
		return
	}

	updates := make(map[string]interface{})

	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "名称不能为空")
			return
		}
		if name != category.Name {
			var existing models.Category
			if err := database.DB.Where("name = ? AND (user_id = ? OR is_default = ?) AND id != ?",
				name, userID, true, category.ID).First(&existing).Error; err == nil {
				BadRequest(c, "类别名称已存在")
				return
			}
			updates["name"] = name
		}
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	Success(c, category)
}

// Delete 删除类别
// @Summary 删除消费类别
// @Description 删除当前用户自建的类别，仍有支出引用的类别不可删除
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "类别下仍有支出记录"
// @Failure 401 {object} Response "无权删除该类别"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的类别ID")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	if category.IsDefault {
		Unauthorized(c, "系统默认类别不可删除")
		return
	}
	if category.UserID == nil || *category.UserID != userID {
		Unauthorized(c, "无权删除该类别")
		return
	}

	// 仍被支出引用的类别不可删除
	var count int64
	if err := database.DB.Model(&models.Expense{}).
		Where("user_id = ? AND category = ?", userID, category.Name).
		Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if count > 0 {
		BadRequest(c, "该类别下仍有支出记录，无法删除")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", gin.H{})
}
