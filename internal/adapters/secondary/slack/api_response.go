package slack

// APIResponse базовая структура ответа от Slack Web API
type APIResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
