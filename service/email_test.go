package service

import (
	"strings"
	"testing"

	"expensetracker/config"

	"github.com/stretchr/testify/assert"
)

func TestEmailService_DisabledReturnsError(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})

	err := svc.SendPasswordResetEmail("test@example.com", "testuser", "http://localhost:3000/reset-password/abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未启用")
}

func TestEmailService_ResetEmailBody(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})

	resetLink := "http://localhost:3000/reset-password/0123456789abcdef"
	body := svc.generateResetEmailBody("testuser", resetLink)

	assert.Contains(t, body, "testuser")
	assert.Contains(t, body, resetLink)
	assert.Contains(t, body, "10 分钟")
	// HTML 邮件
	assert.True(t, strings.Contains(body, "<html>"))
}

func TestEmailService_TestEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})

	err := svc.SendTestEmail("test@example.com")
	assert.Error(t, err)
}
