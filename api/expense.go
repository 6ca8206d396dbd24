package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct{}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	Amount      *float64 `json:"amount" binding:"required,gte=0" example:"99.99"`
	Category    string   `json:"category" binding:"required" example:"Food"`
	Description string   `json:"description" binding:"omitempty,max=255" example:"Lunch"`
	Date        string   `json:"date" example:"2025-01-15 12:30:00"`
	Color       string   `json:"color" binding:"omitempty,max=20"` // 自动建类时使用
}

// UpdateExpenseRequest 更新消费记录请求
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0" example:"99.99"`
	Category    string   `json:"category" example:"Food"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	Date        string   `json:"date" example:"2025-01-15 12:30:00"`
}

// ExpenseListRequest 消费记录列表过滤条件
type ExpenseListRequest struct {
	StartDate string   `form:"startDate" example:"2025-01-01"`
	EndDate   string   `form:"endDate" example:"2025-12-31"`
	Category  string   `form:"category" example:"Food"`
	MinAmount *float64 `form:"minAmount" example:"10"`
	MaxAmount *float64 `form:"maxAmount" example:"500"`
}

// ExpenseWithUser 带用户名的消费记录
type ExpenseWithUser struct {
	models.Expense
	Username string `json:"username"`
}

// CategoryTotal 类别汇总
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
	Color    string  `json:"color" gorm:"-"`
}

// parseExpenseDate 支持多种日期格式
func parseExpenseDate(value string) (time.Time, error) {
	layouts := []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %s", value)
}

// monthRange 计算某年某月的起止时间
// 窗口为 [当月 1 日 00:00:00, 当月最后一天 23:59:59.999]
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// ensureCategory 类别不存在时自动创建用户自建类别
func (h *ExpenseHandler) ensureCategory(userID uint, name, color string) error {
	var cat models.Category
	err := database.DB.Where("name = ? AND (user_id = ? OR is_default = ?)",
		name, userID, true).First(&cat).Error
	if err == nil {
		return nil
	}

	if color == "" {
		color = models.RandomColor()
	}
	newCat := models.Category{
		Name:   name,
		Color:  color,
		UserID: &userID,
	}
	return database.DB.Create(&newCat).Error
}

// canAccessExpense 所有者或管理员可操作
func (h *ExpenseHandler) canAccessExpense(userID uint, expense *models.Expense) bool {
	if expense.UserID == userID {
		return true
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}

// List 获取消费记录列表
// @Summary 获取当前用户的消费记录
// @Description 支持按日期范围、类别和金额范围过滤，按日期倒序返回
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "开始日期" example:"2025-01-01"
// @Param endDate query string false "结束日期" example:"2025-12-31"
// @Param category query string false "类别名称"
// @Param minAmount query number false "最小金额"
// @Param maxAmount query number false "最大金额"
// @Success 200 {object} Response{data=[]ExpenseWithUser} "获取成功"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	query := database.DB.Model(&models.Expense{}).Where("user_id = ?", userID)

	if req.StartDate != "" {
		start, err := parseExpenseDate(req.StartDate)
		if err != nil {
			BadRequest(c, "开始日期格式错误")
			return
		}
		query = query.Where("date >= ?", start)
	}
	if req.EndDate != "" {
		end, err := parseExpenseDate(req.EndDate)
		if err != nil {
			BadRequest(c, "结束日期格式错误")
			return
		}
		// 纯日期按全天处理
		if len(req.EndDate) == len("2006-01-02") {
			end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
		query = query.Where("date <= ?", end)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.MinAmount != nil {
		query = query.Where("amount >= ?", *req.MinAmount)
	}
	if req.MaxAmount != nil {
		query = query.Where("amount <= ?", *req.MaxAmount)
	}

	var expenses []models.Expense
	if err := query.Preload("User").Order("date DESC").Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	list := make([]ExpenseWithUser, 0, len(expenses))
	for _, e := range expenses {
		list = append(list, ExpenseWithUser{Expense: e, Username: e.User.Username})
	}

	SuccessWithCount(c, list, len(list))
}

// Get 获取单条消费记录
// @Summary 获取消费记录详情
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 401 {object} Response "无权访问该记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的记录ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, id).Error; err != nil {
		NotFound(c, "消费记录不存在")
		return
	}

	if !h.canAccessExpense(userID, &expense) {
		Unauthorized(c, "无权访问该记录")
		return
	}

	Success(c, expense)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录；类别不存在时自动创建为用户自建类别
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 201 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "类别不能为空")
		return
	}

	if err := h.ensureCategory(userID, req.Category, req.Color); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建类别失败"))
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseExpenseDate(req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误，支持 2006-01-02 15:04:05 或 2006-01-02")
			return
		}
		date = parsed
	}

	expense := models.Expense{
		UserID:      userID,
		Amount:      *req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建消费记录失败"))
		return
	}

	Created(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Param request body UpdateExpenseRequest true "更新的消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 401 {object} Response "无权修改该记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的记录ID")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, id).Error; err != nil {
		NotFound(c, "消费记录不存在")
		return
	}

	if !h.canAccessExpense(userID, &expense) {
		Unauthorized(c, "无权修改该记录")
		return
	}

	updates := make(map[string]interface{})

	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Category != "" {
		category := strings.TrimSpace(req.Category)
		if err := h.ensureCategory(expense.UserID, category, ""); err != nil {
			InternalError(c, SafeErrorMessage(err, "创建类别失败"))
			return
		}
		updates["category"] = category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != "" {
		date, err := parseExpenseDate(req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误")
			return
		}
		updates["date"] = date
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	Success(c, expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "无权删除该记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的记录ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, id).Error; err != nil {
		NotFound(c, "消费记录不存在")
		return
	}

	if !h.canAccessExpense(userID, &expense) {
		Unauthorized(c, "无权删除该记录")
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", gin.H{})
}

// Monthly 获取某月的消费记录
// @Summary 获取指定年月的消费记录
// @Description 返回当月所有消费记录，按日期升序排列
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param year path int true "年份" example:"2025"
// @Param month path int true "月份(1-12)" example:"8"
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 400 {object} Response "年份或月份无效"
// @Router /api/expenses/monthly/{year}/{month} [get]
func (h *ExpenseHandler) Monthly(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year, month, ok := h.parseYearMonth(c)
	if !ok {
		return
	}

	start, end := monthRange(year, month)

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	SuccessWithMeta(c, expenses, len(expenses), gin.H{
		"year":  year,
		"month": month,
		"start": start,
		"end":   end,
	})
}

// CategoryTotals 获取某月按类别汇总的支出
// @Summary 获取指定年月按类别汇总的支出总额
// @Description 按类别分组求和，按总额倒序排列，并补充类别颜色
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param year path int true "年份" example:"2025"
// @Param month path int true "月份(1-12)" example:"8"
// @Success 200 {object} Response{data=[]CategoryTotal} "获取成功"
// @Failure 400 {object} Response "年份或月份无效"
// @Router /api/expenses/category-totals/{year}/{month} [get]
func (h *ExpenseHandler) CategoryTotals(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year, month, ok := h.parseYearMonth(c)
	if !ok {
		return
	}

	start, end := monthRange(year, month)

	var totals []CategoryTotal
	if err := database.DB.Model(&models.Expense{}).
		Select("category, SUM(amount) as total, COUNT(*) as count").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Group("category").
		Order("total DESC").
		Scan(&totals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	// 补充类别颜色，类别已删除时使用兜底色
	var categories []models.Category
	if err := database.DB.Where("user_id = ? OR is_default = ?", userID, true).
		Find(&categories).Error; err == nil {
		colorMap := make(map[string]string, len(categories))
		for _, cat := range categories {
			colorMap[cat.Name] = cat.Color
		}
		for i := range totals {
			if color, ok := colorMap[totals[i].Category]; ok {
				totals[i].Color = color
			} else {
				totals[i].Color = models.DefaultCategoryColor
			}
		}
	} else {
		for i := range totals {
			totals[i].Color = models.DefaultCategoryColor
		}
	}

	SuccessWithMeta(c, totals, len(totals), gin.H{
		"year":  year,
		"month": month,
	})
}

// parseYearMonth 解析并校验路径中的年月参数
func (h *ExpenseHandler) parseYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		BadRequest(c, "无效的年份")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		BadRequest(c, "无效的月份，应为 1-12")
		return 0, 0, false
	}
	return year, month, true
}
