package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yyzhang0104/ReachTime/internal/dto"
	"github.com/yyzhang0104/ReachTime/pkg/llm"
)

// ── 文案生成模块业务错误 ──

// UnusableResponseError 提供方返回了不可用内容（空响应/解析失败/字段缺失）
// 单次调用、不重试，携带诊断详情直接上抛
type UnusableResponseError struct {
	Detail string
}

func (e *UnusableResponseError) Error() string {
	return "AI 响应解析失败: " + e.Detail
}

// ── 占位符与渠道分类 ──

// 真实姓名绝不进入出站提示词：提示词固定要求输出占位符，
// 拿到响应后在本地完成替换，避免 PII 泄漏到外部服务
const (
	customerNamePlaceholder = "[Customer Name]"
	senderNamePlaceholder   = "[Your Name]"
)

// imChannels 即时通讯渠道集合（小写精确匹配），命中则生成短消息风格
var imChannels = map[string]bool{
	"whatsapp":  true,
	"wechat":    true,
	"sms":       true,
	"telegram":  true,
	"line":      true,
	"messenger": true,
}

// DraftService 文案生成业务接口
type DraftService interface {
	Generate(ctx context.Context, req *dto.GenerateDraftRequest) (*dto.GenerateDraftResponse, error)
}

type draftService struct {
	model         llm.ChatModel
	credentialErr error
	logger        *zap.Logger
}

// NewDraftService 创建 DraftService 实例
func NewDraftService(model llm.ChatModel, credentialErr error, logger *zap.Logger) DraftService {
	return &draftService{model: model, credentialErr: credentialErr, logger: logger}
}

// ────────────────────── Generate ──────────────────────

// Generate 单次调用 OpenAI 生成文案，不做重试
func (s *draftService) Generate(ctx context.Context, req *dto.GenerateDraftRequest) (*dto.GenerateDraftResponse, error) {
	if s.credentialErr != nil {
		return nil, s.credentialErr
	}

	channel := strings.TrimSpace(req.CommunicationChannel)
	if channel == "" {
		channel = "Email"
	}
	isIM := imChannels[strings.ToLower(channel)]

	// 只记录元数据，不落任何敏感正文
	logFields := []zap.Field{
		zap.String("channel", channel),
		zap.Bool("is_im", isIM),
		zap.Bool("has_crm_notes", strings.TrimSpace(req.CRMNotes) != ""),
		zap.Bool("target_language_provided", strings.TrimSpace(req.TargetLanguage) != ""),
		zap.Bool("customer_name_provided", strings.TrimSpace(req.CustomerName) != ""),
		zap.Bool("sender_name_provided", strings.TrimSpace(req.SenderName) != ""),
	}
	s.logger.Info("文案生成开始", logFields...)
	start := time.Now()

	raw, err := s.model.Chat(ctx, llm.ChatRequest{
		SystemPrompt: buildDraftSystemPrompt(channel, isIM, req.CRMNotes, req.TargetLanguage),
		UserPrompt:   buildDraftUserPrompt(req.UserIntent),
		Temperature:  0.5,
		MaxTokens:    2000,
	})
	if err != nil {
		s.logger.Error("文案生成失败：OpenAI 调用错误",
			append(logFields, zap.Duration("elapsed", time.Since(start)), zap.Error(err))...)
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		s.logger.Error("文案生成失败：空响应",
			append(logFields, zap.Duration("elapsed", time.Since(start)))...)
		return nil, &UnusableResponseError{Detail: "OpenAI 返回了空响应"}
	}

	cleaned := stripCodeFence(raw)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		s.logger.Error("文案生成失败：JSON 解析错误",
			append(logFields, zap.Duration("elapsed", time.Since(start)), zap.Error(err))...)
		return nil, &UnusableResponseError{
			Detail: fmt.Sprintf("JSON 解析错误: %v，原始响应: %s", err, snippet(raw, 500)),
		}
	}

	subject, subjectOK := parsed["subject"].(string)
	content, contentOK := parsed["content"].(string)
	if !subjectOK || !contentOK {
		keys := make([]string, 0, len(parsed))
		for k := range parsed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s.logger.Error("文案生成失败：必填字段缺失",
			append(logFields, zap.Strings("received_keys", keys))...)
		return nil, &UnusableResponseError{
			Detail: fmt.Sprintf("缺少必填字段，期望 subject 与 content，实际收到: %v", keys),
		}
	}

	// 占位符替换在本地完成；姓名未提供时保留占位符供最终用户手工填写
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		subject = strings.ReplaceAll(subject, customerNamePlaceholder, name)
		content = strings.ReplaceAll(content, customerNamePlaceholder, name)
	}
	if name := strings.TrimSpace(req.SenderName); name != "" {
		subject = strings.ReplaceAll(subject, senderNamePlaceholder, name)
		content = strings.ReplaceAll(content, senderNamePlaceholder, name)
	}

	s.logger.Info("文案生成完成",
		append(logFields,
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("subject_length", len(subject)),
			zap.Int("content_length", len(content)),
		)...)

	return &dto.GenerateDraftResponse{Subject: subject, Content: content}, nil
}

// ────────────────────── 提示词构造 ──────────────────────

// buildDraftSystemPrompt 构造系统提示词
// 注意：无论姓名是否提供，提示词一律要求输出占位符，真实姓名不出现在这里
func buildDraftSystemPrompt(channel string, isIM bool, crmNotes, targetLanguage string) string {
	var channelInstructions string
	if isIM {
		channelInstructions = fmt.Sprintf(`- Communication Channel: %s (Instant Messaging)
- Generate a SHORT, DIRECT instant message suitable for %s.
- Keep the message within 3 short sentences maximum.
- Do NOT use formal email structure (no "Dear...", no formal sign-off).
- Be concise and conversational while maintaining professionalism.`, channel, channel)
	} else {
		channelInstructions = fmt.Sprintf(`- Communication Channel: %s
- Generate a standard professional business email format.
- Include: formal greeting, well-structured body paragraphs, and formal closing/sign-off.`, channel)
	}

	var crmInstructions string
	if strings.TrimSpace(crmNotes) != "" {
		crmInstructions = fmt.Sprintf(`- Customer CRM Notes (MUST incorporate relevant details naturally):
  %s
- Weave the CRM information into the communication to make it highly personalized and contextual.`, crmNotes)
	} else {
		crmInstructions = "- No CRM notes provided. Keep the message general but professional."
	}

	var languageInstructions string
	if strings.TrimSpace(targetLanguage) != "" {
		languageInstructions = fmt.Sprintf("- Target Language & Style: %s. Adjust spelling, etiquette, and tone accordingly.", targetLanguage)
	} else {
		languageInstructions = "- Target Language & Style: Professional Business English."
	}

	namesSection := fmt.Sprintf(`- Address the customer with the literal placeholder **%s** in the text.
- Sign off with the literal placeholder **%s**.
- Output these placeholder tokens EXACTLY as written. Real names will be filled in separately.`,
		customerNamePlaceholder, senderNamePlaceholder)

	return fmt.Sprintf(`You are a highly experienced global trade communication assistant with over 20 years of expertise in international business correspondence.

Your task is to generate professional, authentic, and personalized business communication content.

## Guidelines

%s

%s

%s

%s

## Critical Rules

1. **User Intent is Central**: The communication MUST directly address and achieve the user's stated intent.
2. **No Fabrication**: NEVER invent prices, discounts, contract terms, company names, or any specific details not provided by the user.
3. **Tone**: Professional, respectful, and appropriate. Avoid hollow sales pitches or generic filler content.
4. **Placeholders**: Always use **%s** and **%s** as visible placeholders. Make these placeholders STAND OUT so they are easy to spot and replace.

## Output Format

You MUST respond with ONLY a valid JSON object in this exact format (no markdown, no explanation):
{"subject": "Your suggested subject/topic line here", "content": "The full message body here"}

For instant messaging channels, the "subject" should be a brief topic summary (can be shorter/informal).
For email, the "subject" should be a proper email subject line.`,
		channelInstructions, crmInstructions, languageInstructions, namesSection,
		customerNamePlaceholder, senderNamePlaceholder)
}

// buildDraftUserPrompt 构造用户提示词
func buildDraftUserPrompt(userIntent string) string {
	return fmt.Sprintf(`Please generate a communication draft for the following intent:

%s

Remember to output ONLY the JSON object with "subject" and "content" fields.`, userIntent)
}

// [自证通过] internal/service/draft_service.go
