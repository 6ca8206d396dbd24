package api

import (
	"net/http"
	"time"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateDetailsRequest 更新资料请求
type UpdateDetailsRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=50"`
}

// ForgotPasswordRequest 忘记密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"test@example.com"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号并返回 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} Response "注册成功"
// @Failure 400 {object} Response "请求参数错误或用户已存在"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 检查用户名是否已存在
	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		BadRequest(c, "用户名已存在")
		return
	}

	// 检查邮箱是否已存在
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		BadRequest(c, "邮箱已被注册")
		return
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	h.sendTokenResponse(c, &user, http.StatusCreated)
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用邮箱和密码登录，获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 查找用户，未注册与密码错误返回相同提示
	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	h.sendTokenResponse(c, &user, http.StatusOK)
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除 token cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} Response "退出成功"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// 用短期失效值覆盖 token cookie
	c.SetCookie("token", "none", 10, "/", "", h.cfg.Server.Mode == "release", true)
	Success(c, gin.H{})
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Router /api/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}

// UpdateDetails 更新用户资料
// @Summary 更新当前用户的用户名和邮箱
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateDetailsRequest true "更新内容"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误或已被占用"
// @Router /api/auth/update-details [put]
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	updates := make(map[string]interface{})

	if req.Username != "" && req.Username != user.Username {
		var existing models.User
		if err := database.DB.Where("username = ? AND id != ?", req.Username, userID).First(&existing).Error; err == nil {
			BadRequest(c, "用户名已存在")
			return
		}
		updates["username"] = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := database.DB.Where("email = ? AND id != ?", req.Email, userID).First(&existing).Error; err == nil {
			BadRequest(c, "邮箱已被注册")
			return
		}
		updates["email"] = req.Email
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	Success(c, user)
}

// UpdatePassword 修改密码
// @Summary 修改当前用户密码
// @Description 验证当前密码后更新为新密码，并重新签发 token
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 401 {object} Response "当前密码错误"
// @Router /api/auth/update-password [put]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		Unauthorized(c, "当前密码错误")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	h.sendTokenResponse(c, &user, http.StatusOK)
}

// ForgotPassword 忘记密码
// @Summary 发起密码重置
// @Description 向注册邮箱发送带重置链接的邮件，链接 10 分钟内有效
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "注册邮箱"
// @Success 200 {object} Response "邮件已发送"
// @Failure 404 {object} Response "邮箱未注册"
// @Failure 500 {object} Response "邮件发送失败"
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		NotFound(c, "该邮箱未注册")
		return
	}

	// 生成明文令牌，仅保存哈希
	rawToken, err := models.GenerateResetToken()
	if err != nil {
		InternalError(c, "生成重置令牌失败")
		return
	}

	hashedToken := models.HashResetToken(rawToken)
	expire := time.Now().Add(10 * time.Minute)

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"reset_password_token":  hashedToken,
		"reset_password_expire": expire,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "保存重置令牌失败"))
		return
	}

	resetURL := h.cfg.Server.FrontendURL + "/reset-password/" + rawToken

	if err := h.emailService.SendPasswordResetEmail(user.Email, user.Username, resetURL); err != nil {
		// 发送失败时清除令牌，避免留下无法送达的待用令牌
		database.DB.Model(&user).Updates(map[string]interface{}{
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})
		InternalError(c, "邮件发送失败，请稍后重试")
		return
	}

	SuccessWithMessage(c, "重置邮件已发送，请查收", gin.H{})
}

// ResetPassword 重置密码
// @Summary 通过邮件中的令牌重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param resettoken path string true "重置令牌"
// @Param request body ResetPasswordRequest true "新密码"
// @Success 200 {object} Response "重置成功"
// @Failure 400 {object} Response "令牌无效或已过期"
// @Router /api/auth/reset-password/{resettoken} [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	hashedToken := models.HashResetToken(c.Param("resettoken"))

	var user models.User
	if err := database.DB.Where("reset_password_token = ? AND reset_password_expire > ?",
		hashedToken, time.Now()).First(&user).Error; err != nil {
		BadRequest(c, "重置令牌无效或已过期")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"password":              string(hashedPassword),
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "重置密码失败"))
		return
	}

	h.sendTokenResponse(c, &user, http.StatusOK)
}

// sendTokenResponse 签发 token，同时写入 cookie 和响应体
func (h *AuthHandler) sendTokenResponse(c *gin.Context, user *models.User, status int) {
	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	maxAge := h.cfg.JWT.CookieExpireDays * 86400
	secure := h.cfg.Server.Mode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, maxAge, "/", "", secure, true)

	c.JSON(status, Response{
		Success: true,
		Data: gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
		},
	})
}
