package models

// ErrorResponse API 錯誤回應的標準格式
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
