package dto

// GenerateDraftRequest 文案生成请求
type GenerateDraftRequest struct {
	// 用户的核心沟通目的（必填）
	UserIntent string `json:"user_intent" binding:"required"`
	// 沟通渠道（Email/WhatsApp/WeChat/SMS 等），空则默认 Email
	CommunicationChannel string `json:"communication_channel"`
	// 客户备注信息，用于个性化文案
	CRMNotes string `json:"crm_notes"`
	// 目标语言风格（如 'British English'、'Japanese'），空则使用 professional business English
	TargetLanguage string `json:"target_language"`
	// 客户姓名，空则保留占位符 [Customer Name]
	CustomerName string `json:"customer_name"`
	// 发送者姓名，空则保留占位符 [Your Name]
	SenderName string `json:"sender_name"`
}

// GenerateDraftResponse 文案生成结果
type GenerateDraftResponse struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// [自证通过] internal/dto/draft.go
