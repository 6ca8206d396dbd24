package middleware

import (
	"net/http"

	"expensetracker/database"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
)

// AdminRequired 管理员角色校验中间件
// 需在 JWTAuth 之后使用。角色以数据库为准，避免旧 token 携带过期角色。
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "请先登录"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "用户不存在"})
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "需要管理员权限"})
			c.Abort()
			return
		}

		c.Next()
	}
}
