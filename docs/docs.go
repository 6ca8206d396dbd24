// Package docs 由 swag init 生成的 Swagger 文档
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "description": "创建新用户账号并返回 JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "用户注册",
                "parameters": [
                    {
                        "description": "注册信息",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "注册成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "请求参数错误或用户已存在", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "使用邮箱和密码登录，获取 JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "用户登录",
                "parameters": [
                    {
                        "description": "登录信息",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "登录成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "401": {"description": "邮箱或密码错误", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/auth/forgot-password": {
            "post": {
                "description": "向注册邮箱发送带重置链接的邮件，链接 10 分钟内有效",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "发起密码重置",
                "parameters": [
                    {
                        "description": "注册邮箱",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.ForgotPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "邮件已发送", "schema": {"$ref": "#/definitions/api.Response"}},
                    "404": {"description": "邮箱未注册", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "返回系统默认类别与当前用户自建类别，按名称排序",
                "produces": ["application/json"],
                "tags": ["消费类别"],
                "summary": "获取消费类别列表",
                "responses": {
                    "200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "在当前用户范围内创建类别",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["消费类别"],
                "summary": "创建消费类别",
                "parameters": [
                    {
                        "description": "类别信息",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.CategoryCreateRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "创建成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "参数错误或类别名称已存在", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "支持按日期范围、类别和金额范围过滤，按日期倒序返回",
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "获取当前用户的消费记录",
                "parameters": [
                    {"type": "string", "name": "startDate", "in": "query"},
                    {"type": "string", "name": "endDate", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "number", "name": "minAmount", "in": "query"},
                    {"type": "number", "name": "maxAmount", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "创建一条新的消费记录；类别不存在时自动创建为用户自建类别",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "创建消费记录",
                "parameters": [
                    {
                        "description": "消费记录信息",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.CreateExpenseRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "创建成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/expenses/monthly/{year}/{month}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "返回当月所有消费记录，按日期升序排列",
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "获取指定年月的消费记录",
                "parameters": [
                    {"type": "integer", "name": "year", "in": "path", "required": true},
                    {"type": "integer", "name": "month", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "年份或月份无效", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/expenses/category-totals/{year}/{month}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "按类别分组求和，按总额倒序排列，并补充类别颜色",
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "获取指定年月按类别汇总的支出总额",
                "parameters": [
                    {"type": "integer", "name": "year", "in": "path", "required": true},
                    {"type": "integer", "name": "month", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "年份或月份无效", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/export/excel": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["导出"],
                "summary": "导出消费记录为 Excel 文件",
                "parameters": [
                    {"type": "string", "name": "startDate", "in": "query", "required": true},
                    {"type": "string", "name": "endDate", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Excel 文件"},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "count": {"type": "integer"},
                "meta": {}
            }
        },
        "api.RegisterRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string", "example": "testuser"},
                "email": {"type": "string", "example": "test@example.com"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "test@example.com"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "api.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "example": "test@example.com"}
            }
        },
        "api.CategoryCreateRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"}
            }
        },
        "api.CreateExpenseRequest": {
            "type": "object",
            "required": ["amount", "category"],
            "properties": {
                "amount": {"type": "number", "example": 99.99},
                "category": {"type": "string", "example": "Food"},
                "description": {"type": "string", "example": "Lunch"},
                "date": {"type": "string", "example": "2025-01-15 12:30:00"},
                "color": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Expense Tracker API",
	Description:      "个人记账后端 API：用户认证、消费类别、消费记录与月度报表",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
