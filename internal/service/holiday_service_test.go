package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/yyzhang0104/ReachTime/pkg/holiday"
)

// ── 测试辅助 ──

func setupTestHolidayService(provider *mockHolidayProvider) HolidayService {
	return NewHolidayService(provider, holiday.NewYearCache(), zap.NewNop())
}

// ── GetStatus 测试 ──

func TestHolidayService_GetStatus_NewYear2026(t *testing.T) {
	provider := newMockHolidayProvider()
	provider.set("US", 2026, map[string]string{"2026-01-01": "New Year's Day"})
	svc := setupTestHolidayService(provider)

	// 2026-01-01 是周四
	result, err := svc.GetStatus(context.Background(), "US", "2026-01-01")
	if err != nil {
		t.Fatalf("GetStatus 应成功: %v", err)
	}
	if !result.IsHoliday {
		t.Error("期望is_holiday=true")
	}
	if result.IsWeekend {
		t.Error("期望is_weekend=false（周四）")
	}
	if result.HolidayName == nil || *result.HolidayName != "New Year's Day" {
		t.Errorf("期望holiday_name=New Year's Day，实际=%v", result.HolidayName)
	}
	if !result.IsSupportedCountry {
		t.Error("期望is_supported_country=true")
	}
}

func TestHolidayService_GetStatus_Weekend(t *testing.T) {
	provider := newMockHolidayProvider()
	svc := setupTestHolidayService(provider)

	// 2026-01-03 是周六，2026-01-04 是周日
	for _, dateStr := range []string{"2026-01-03", "2026-01-04"} {
		result, err := svc.GetStatus(context.Background(), "US", dateStr)
		if err != nil {
			t.Fatalf("GetStatus(%s) 应成功: %v", dateStr, err)
		}
		if !result.IsWeekend {
			t.Errorf("%s 应判定为周末", dateStr)
		}
		if result.IsHoliday {
			t.Errorf("%s 不在节假日表中，不应判定为节假日", dateStr)
		}
		if result.HolidayName != nil {
			t.Errorf("非节假日的holiday_name应为nil，实际=%v", *result.HolidayName)
		}
	}
}

func TestHolidayService_GetStatus_CachesPerCountryYear(t *testing.T) {
	provider := newMockHolidayProvider()
	provider.set("US", 2026, map[string]string{"2026-01-01": "New Year's Day"})
	svc := setupTestHolidayService(provider)

	for _, dateStr := range []string{"2026-01-01", "2026-05-20", "2026-12-31"} {
		if _, err := svc.GetStatus(context.Background(), "US", dateStr); err != nil {
			t.Fatalf("GetStatus(%s) 应成功: %v", dateStr, err)
		}
	}
	if provider.calls != 1 {
		t.Errorf("同一 (国家, 年份) 只应真实拉取 1 次，实际 %d 次", provider.calls)
	}

	// 不同年份触发新的拉取
	if _, err := svc.GetStatus(context.Background(), "US", "2027-01-01"); err != nil {
		t.Fatalf("GetStatus 应成功: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("新年份应触发第 2 次拉取，实际 %d 次", provider.calls)
	}
}

func TestHolidayService_GetStatus_NormalizesCountryCode(t *testing.T) {
	provider := newMockHolidayProvider()
	provider.set("US", 2026, map[string]string{"2026-01-01": "New Year's Day"})
	svc := setupTestHolidayService(provider)

	result, err := svc.GetStatus(context.Background(), " us ", "2026-01-01")
	if err != nil {
		t.Fatalf("GetStatus 应成功: %v", err)
	}
	if !result.IsSupportedCountry || !result.IsHoliday {
		t.Error("小写/带空白的国家代码应被归一化后命中")
	}
}

func TestHolidayService_GetStatus_UnsupportedCountry(t *testing.T) {
	provider := newMockHolidayProvider()
	svc := setupTestHolidayService(provider)

	// 2026-01-03 周六：周末判定不依赖数据源，必须照常计算
	result, err := svc.GetStatus(context.Background(), "XX", "2026-01-03")
	if err != nil {
		t.Fatalf("GetStatus 应成功: %v", err)
	}
	if result.IsSupportedCountry {
		t.Error("期望is_supported_country=false")
	}
	if result.IsHoliday {
		t.Error("不支持的国家is_holiday应恒为false")
	}
	if !result.IsWeekend {
		t.Error("不支持的国家周末判定仍应生效")
	}
	if provider.calls != 0 {
		t.Errorf("不支持的国家不应发起数据源调用，实际 %d 次", provider.calls)
	}
}

func TestHolidayService_GetStatus_InvalidCalendarDate(t *testing.T) {
	provider := newMockHolidayProvider()
	svc := setupTestHolidayService(provider)

	// 形状合法但日历非法
	_, err := svc.GetStatus(context.Background(), "US", "2026-99-01")
	var invalidDate *InvalidDateError
	if !errors.As(err, &invalidDate) {
		t.Fatalf("期望 InvalidDateError，实际: %v", err)
	}
	if invalidDate.Input != "2026-99-01" {
		t.Errorf("错误应点名非法输入，实际=%s", invalidDate.Input)
	}
	if provider.calls != 0 {
		t.Errorf("日期非法不应发起数据源调用，实际 %d 次", provider.calls)
	}
}

func TestHolidayService_GetStatus_ProviderFailurePropagates(t *testing.T) {
	provider := newMockHolidayProvider()
	provider.err = fmt.Errorf("%w: dial tcp: i/o timeout", holiday.ErrTimeout)
	svc := setupTestHolidayService(provider)

	// fail-closed：数据源失败不得降级为"非节假日"
	_, err := svc.GetStatus(context.Background(), "US", "2026-01-01")
	if !errors.Is(err, holiday.ErrTimeout) {
		t.Fatalf("期望数据源超时错误原样上抛，实际: %v", err)
	}
}

// ── GetHolidaysForDates 测试 ──

func TestHolidayService_Batch_ReturnsOnlyHolidays(t *testing.T) {
	provider := newMockHolidayProvider()
	provider.set("US", 2026, map[string]string{
		"2026-01-01": "New Year's Day",
		"2026-07-04": "Independence Day",
		"2026-12-25": "Christmas Day",
	})
	svc := setupTestHolidayService(provider)

	holidays, isSupported, err := svc.GetHolidaysForDates(context.Background(), "US",
		[]string{"2026-01-01", "2026-01-02", "2026-07-04"})
	if err != nil {
		t.Fatalf("批量查询应成功: %v", err)
	}
	if !isSupported {
		t.Error("期望is_supported_country=true")
	}
	if len(holidays) != 2 {
		t.Errorf("期望恰好 2 条节假日，实际=%v", holidays)
	}
	if _, ok := holidays["2026-01-02"]; ok {
		t.Error("非节假日日期不应出现在结果中")
	}
	// 未请求的节假日（12-25）也不应出现
	if _, ok := holidays["2026-12-25"]; ok {
		t.Error("结果不得包含请求列表之外的日期")
	}
}

func TestHolidayService_Batch_CrossYearFetchesEachYearOnce(t *testing.T) {
	provider := newMockHolidayProvider()
	provider.set("JP", 2025, map[string]string{"2025-12-31": "大晦日"})
	provider.set("JP", 2026, map[string]string{"2026-01-01": "元日"})
	svc := setupTestHolidayService(provider)

	holidays, _, err := svc.GetHolidaysForDates(context.Background(), "JP",
		[]string{"2025-12-31", "2026-01-01", "2026-01-02", "2025-12-30"})
	if err != nil {
		t.Fatalf("批量查询应成功: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("跨两个年份应恰好拉取 2 次，实际 %d 次", provider.calls)
	}
	if len(holidays) != 2 {
		t.Errorf("期望 2 条节假日，实际=%v", holidays)
	}

	// 再次查询走缓存，不新增拉取
	if _, _, err := svc.GetHolidaysForDates(context.Background(), "JP", []string{"2025-12-31"}); err != nil {
		t.Fatalf("批量查询应成功: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("缓存命中后不应新增拉取，实际 %d 次", provider.calls)
	}
}

func TestHolidayService_Batch_UnsupportedCountry(t *testing.T) {
	provider := newMockHolidayProvider()
	svc := setupTestHolidayService(provider)

	holidays, isSupported, err := svc.GetHolidaysForDates(context.Background(), "ZZ",
		[]string{"2026-01-01"})
	if err != nil {
		t.Fatalf("批量查询应成功: %v", err)
	}
	if isSupported {
		t.Error("期望is_supported_country=false")
	}
	if len(holidays) != 0 {
		t.Errorf("不支持的国家应返回空表，实际=%v", holidays)
	}
	if provider.calls != 0 {
		t.Errorf("不支持的国家不应发起数据源调用，实际 %d 次", provider.calls)
	}
}

func TestHolidayService_Batch_InvalidDateRejectsWholeBatch(t *testing.T) {
	provider := newMockHolidayProvider()
	svc := setupTestHolidayService(provider)

	_, _, err := svc.GetHolidaysForDates(context.Background(), "US",
		[]string{"2026-01-01", "2026-02-30"})
	var invalidDate *InvalidDateError
	if !errors.As(err, &invalidDate) {
		t.Fatalf("期望 InvalidDateError，实际: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("存在非法日期时不应发起任何数据源调用，实际 %d 次", provider.calls)
	}
}

// [自证通过] internal/service/holiday_service_test.go
