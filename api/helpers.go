package api

import (
	"errors"
	"strconv"
	"time"

	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// timeNow 便于测试固定当前时间
var timeNow = time.Now

// parseID 解析路径参数 id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// loadUserSettings 读取用户设置，未保存过时返回默认值
func loadUserSettings(db *gorm.DB, userID uint) (models.UserSettings, error) {
	var s models.UserSettings
	err := db.Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultUserSettings(userID), nil
	}
	if err != nil {
		return s, err
	}
	return s, nil
}

// userCategory 查询属于当前用户的类别
func userCategory(userID, categoryID uint) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}
