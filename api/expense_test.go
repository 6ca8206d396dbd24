package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func expenseColumns() []string {
	return []string{"id", "user_id", "amount", "category", "description", "date",
		"created_at", "updated_at", "deleted_at"}
}

func TestMonthRange(t *testing.T) {
	start, end := monthRange(2025, 8)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 8, 31, 23, 59, 59, 999000000, time.Local), end)

	// 平年二月
	start, end = monthRange(2025, 2)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, 28, end.Day())

	// 闰年二月
	_, end = monthRange(2024, 2)
	assert.Equal(t, 29, end.Day())

	// 十二月跨年
	_, end = monthRange(2025, 12)
	assert.Equal(t, time.December, end.Month())
	assert.Equal(t, 31, end.Day())
}

func TestParseExpenseDate(t *testing.T) {
	d, err := parseExpenseDate("2025-01-15 12:30:00")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Hour())

	d, err = parseExpenseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	_, err = parseExpenseDate("15/01/2025")
	assert.Error(t, err)
}

func TestExpenseHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 类别已存在
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs("Food", uint(1), true).
		WillReturnRows(sqlmock.NewRows(categoryColumns()).
			AddRow(1, "Food", "#ef4444", nil, true, time.Now(), time.Now(), nil))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler().Create)

	body := `{"amount":42.50,"category":"Food","description":"Lunch","date":"2025-01-15 12:30:00"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_AutoCreatesCategory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 类别不存在，自动创建为用户自建类别
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs("Hobbies", uint(1), true).
		WillReturnRows(sqlmock.NewRows([]string{}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler().Create)

	body := `{"amount":15,"category":"Hobbies","description":"Paint"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_ZeroAmountAllowed(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs("Food", uint(1), true).
		WillReturnRows(sqlmock.NewRows(categoryColumns()).
			AddRow(1, "Food", "#ef4444", nil, true, time.Now(), time.Now(), nil))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler().Create)

	body := `{"amount":0,"category":"Food","description":"Free sample"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_MissingAmount(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler().Create)

	body := `{"category":"Food"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestExpenseHandler_Get_NotOwner(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 记录属于用户 2
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(7, 2, 30.0, "Food", "Dinner", time.Now(), time.Now(), time.Now(), nil))

	// 当前用户非管理员
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "normal", "n@x.com", "hash", "user", nil, nil, time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/:id", NewExpenseHandler().Get)

	req := httptest.NewRequest("GET", "/expenses/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Get_AdminBypassesOwnership(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(7, 2, 30.0, "Food", "Dinner", time.Now(), time.Now(), time.Now(), nil))

	// 管理员可以访问他人记录
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "admin", "a@x.com", "hash", "admin", nil, nil, time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/:id", NewExpenseHandler().Get)

	req := httptest.NewRequest("GET", "/expenses/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/:id", NewExpenseHandler().Get)

	req := httptest.NewRequest("GET", "/expenses/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Monthly(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(1, 1, 12.5, "Food", "Breakfast", time.Date(2025, 8, 3, 8, 0, 0, 0, time.Local), time.Now(), time.Now(), nil).
			AddRow(2, 1, 40.0, "Transportation", "Taxi", time.Date(2025, 8, 10, 18, 0, 0, 0, time.Local), time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/monthly/:year/:month", NewExpenseHandler().Monthly)

	req := httptest.NewRequest("GET", "/expenses/monthly/2025/8", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(2025), meta["year"])
	assert.Equal(t, float64(8), meta["month"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Monthly_InvalidMonth(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/monthly/:year/:month", NewExpenseHandler().Monthly)

	for _, month := range []string{"0", "13", "abc"} {
		req := httptest.NewRequest("GET", "/expenses/monthly/2025/"+month, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 400, w.Code)
	}
}

func TestExpenseHandler_CategoryTotals(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 分组汇总按总额倒序
	mock.ExpectQuery("SELECT category, SUM\\(amount\\) as total, COUNT\\(\\*\\) as count FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total", "count"}).
			AddRow("Food", 320.5, 12).
			AddRow("Transportation", 88.0, 4).
			AddRow("Deleted Category", 10.0, 1))

	// 颜色来自类别表，已删除的类别用兜底色
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns()).
			AddRow(1, "Food", "#ef4444", nil, true, time.Now(), time.Now(), nil).
			AddRow(2, "Transportation", "#3b82f6", nil, true, time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/category-totals/:year/:month", NewExpenseHandler().CategoryTotals)

	req := httptest.NewRequest("GET", "/expenses/category-totals/2025/8", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 3)

	first := data[0].(map[string]interface{})
	assert.Equal(t, "Food", first["category"])
	assert.Equal(t, "#ef4444", first["color"])

	last := data[2].(map[string]interface{})
	assert.Equal(t, "#757575", last["color"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List_WithFilters(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(1, 1, 50.0, "Food", "Groceries", time.Now(), time.Now(), time.Now(), nil))

	// Preload 用户
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "testuser", "t@x.com", "hash", "user", nil, nil, time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses", NewExpenseHandler().List)

	req := httptest.NewRequest("GET", "/expenses?startDate=2025-01-01&endDate=2025-12-31&category=Food&minAmount=10&maxAmount=100", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
	data := resp["data"].([]interface{})
	item := data[0].(map[string]interface{})
	assert.Equal(t, "testuser", item["username"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(3, 1, 20.0, "Food", "Snack", time.Now(), time.Now(), time.Now(), nil))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/expenses/:id", NewExpenseHandler().Delete)

	req := httptest.NewRequest("DELETE", "/expenses/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
