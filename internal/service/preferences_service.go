package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yyzhang0104/ReachTime/internal/dto"
	"github.com/yyzhang0104/ReachTime/pkg/llm"
)

// PreferencesService 偏好抽取业务接口
type PreferencesService interface {
	Extract(ctx context.Context, req *dto.ExtractPreferencesRequest) (*dto.ExtractPreferencesResponse, error)
}

type preferencesService struct {
	model         llm.ChatModel
	credentialErr error
	maxRetries    int
	logger        *zap.Logger
}

// NewPreferencesService 创建 PreferencesService 实例
// maxRetries 为首次尝试之后的额外重试次数
func NewPreferencesService(model llm.ChatModel, credentialErr error, maxRetries int, logger *zap.Logger) PreferencesService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &preferencesService{
		model:         model,
		credentialErr: credentialErr,
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

// ────────────────────── Extract ──────────────────────

// Extract 从 CRM 备注抽取联系偏好，失败分三类处理：
//   - 提供方调用错误：立即上抛，不消耗剩余重试
//   - 解析/校验错误：以相同提示词重试（无退避、不改写提示词），直至次数耗尽
//   - 重试耗尽：返回空偏好（置信度 0.0），不上抛，下游排期流程可继续
func (s *preferencesService) Extract(ctx context.Context, req *dto.ExtractPreferencesRequest) (*dto.ExtractPreferencesResponse, error) {
	if s.credentialErr != nil {
		return nil, s.credentialErr
	}

	logFields := []zap.Field{
		zap.String("customer_country", orNotProvided(req.CustomerCountry)),
		zap.String("customer_timezone", orNotProvided(req.CustomerTimezone)),
		zap.String("today_local_date", orNotProvided(req.TodayLocalDate)),
		zap.Int("notes_length", len(req.CRMNotes)),
	}
	s.logger.Info("偏好抽取开始", logFields...)
	start := time.Now()

	systemPrompt := buildExtractionSystemPrompt()
	userPrompt := buildExtractionUserPrompt(req)

	totalAttempts := 1 + s.maxRetries
	var lastErr error

	for attempt := 1; attempt <= totalAttempts; attempt++ {
		raw, err := s.model.Chat(ctx, llm.ChatRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  0.1, // 低采样温度，结构化抽取要求近似确定性输出
			MaxTokens:    1000,
		})
		if err != nil {
			// 提供方层面的失败不属于可重试范畴，立即中止
			s.logger.Error("偏好抽取失败：OpenAI 调用错误",
				append(logFields,
					zap.Int("attempt", attempt),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)...)
			return nil, err
		}

		result, parseErr := parsePreferences(raw)
		if parseErr == nil {
			s.logger.Info("偏好抽取完成",
				append(logFields,
					zap.Int("attempt", attempt),
					zap.Duration("elapsed", time.Since(start)),
					zap.Float64("confidence", result.Confidence),
					zap.Int("preferred_time_windows_count", len(result.PreferredTimeWindows)),
					zap.Int("avoid_time_windows_count", len(result.AvoidTimeWindows)),
					zap.Int("preferred_weekdays_count", len(result.PreferredWeekdays)),
					zap.Int("avoid_weekdays_count", len(result.AvoidWeekdays)),
					zap.Int("avoid_dates_count", len(result.AvoidDates)),
				)...)
			return result, nil
		}

		lastErr = parseErr
		s.logger.Warn("偏好抽取：解析/校验错误",
			append(logFields,
				zap.Int("attempt", attempt),
				zap.Bool("will_retry", attempt < totalAttempts),
				zap.Error(parseErr),
			)...)
	}

	// 重试耗尽：降级为空偏好而非报错，LLM 格式抖动不应阻塞整个排期流程
	s.logger.Warn("偏好抽取：重试耗尽，返回空偏好",
		append(logFields,
			zap.Int("total_attempts", totalAttempts),
			zap.Duration("elapsed", time.Since(start)),
			zap.NamedError("last_error", lastErr),
		)...)
	return dto.EmptyPreferences(), nil
}

// parsePreferences 清理、解析并校验一次 LLM 响应
func parsePreferences(raw string) (*dto.ExtractPreferencesResponse, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("OpenAI 返回了空响应")
	}

	cleaned := stripCodeFence(raw)

	var result dto.ExtractPreferencesResponse
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("Schema 校验失败: %w", err)
	}

	return &result, nil
}

// orNotProvided 空字段在日志中统一记为 not_provided
func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not_provided"
	}
	return s
}

// ────────────────────── 提示词构造 ──────────────────────

// buildExtractionSystemPrompt 固定的抽取指令提示词（Schema + 示例）
func buildExtractionSystemPrompt() string {
	return `You are a structured information extraction assistant specialized in extracting scheduling preferences from CRM notes.

Your task is to extract contact scheduling preferences and constraints from customer notes.

## Output Format

You MUST respond with ONLY a valid JSON object (no markdown, no explanation) with these exact fields:

{
  "preferred_time_windows": [{"start": "HH:MM", "end": "HH:MM"}],
  "avoid_time_windows": [{"start": "HH:MM", "end": "HH:MM"}],
  "preferred_weekdays": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"],
  "avoid_weekdays": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"],
  "preferred_dates": ["YYYY-MM-DD"],
  "avoid_dates": ["YYYY-MM-DD"],
  "preferred_date_ranges": [{"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"}],
  "avoid_date_ranges": [{"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"}],
  "confidence": 0.0,
  "notes_language": "en"
}

## Rules

1. **Time format**: Always use 24-hour format "HH:MM" (e.g., "09:00", "14:30", "22:00")
2. **Date format**: Always use "YYYY-MM-DD" format (e.g., "2026-03-01")
3. **Weekdays**: Use exactly these values: "MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"
4. **Language**: Set notes_language to "zh" for Chinese, "en" for English, "mixed" for both, or "unknown"
5. **Confidence**: Set between 0.0 (no preferences found) and 1.0 (very clear preferences)
6. **Empty arrays**: If no preferences of a type are found, use empty arrays []
7. **No guessing**: Only extract explicitly stated preferences. Do not infer or assume.
8. **Avoid > Prefer**: If something is mentioned as both preferred and to avoid, prioritize the "avoid" constraint.

## Examples of what to extract

- "不希望周五被打扰" → avoid_weekdays: ["FRI"]
- "周一到周四上午 9-11 比较好" → preferred_weekdays: ["MON","TUE","WED","THU"], preferred_time_windows: [{"start":"09:00","end":"11:00"}]
- "2026年3月1号休假" → avoid_dates: ["2026-03-01"]
- "下午联系比较方便" → preferred_time_windows: [{"start":"13:00","end":"18:00"}]
- "3月1号到3号出差" → avoid_date_ranges: [{"start":"2026-03-01","end":"2026-03-03"}]
- "早上不方便" → avoid_time_windows: [{"start":"06:00","end":"12:00"}]`
}

// buildExtractionUserPrompt 每次调用的上下文块 + 原始备注
func buildExtractionUserPrompt(req *dto.ExtractPreferencesRequest) string {
	var contextParts []string
	if req.CustomerCountry != "" {
		contextParts = append(contextParts, "Customer country: "+req.CustomerCountry)
	}
	if req.CustomerTimezone != "" {
		contextParts = append(contextParts, "Customer timezone: "+req.CustomerTimezone)
	}
	if req.TodayLocalDate != "" {
		contextParts = append(contextParts, "Today's date (customer local): "+req.TodayLocalDate)
	}

	contextStr := "No additional context provided."
	if len(contextParts) > 0 {
		contextStr = strings.Join(contextParts, "\n")
	}

	return fmt.Sprintf(`Extract scheduling preferences from these CRM notes.

Context (for interpreting relative dates like "next week", "tomorrow"):
%s

CRM Notes:
%s

Remember: Output ONLY the JSON object. All dates/times are interpreted in the customer's local timezone.`, contextStr, req.CRMNotes)
}

// [自证通过] internal/service/preferences_service.go
