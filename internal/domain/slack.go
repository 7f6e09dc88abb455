package domain

// дока - https://api.slack.com/reference/interaction-payloads

// Типы интерактивных payload от Slack
const (
	InteractionTypeBlockActions   = "block_actions"
	InteractionTypeViewSubmission = "view_submission"
)

// Action ID кнопок карточки и callback ID модалки ответа
const (
	ActionClaimRequest      = "claim_request"
	ActionSetStatusProgress = "set_status_progress"
	ActionReplyToCustomer   = "reply_to_customer"
	ActionOpenDashboard     = "open_dashboard"

	CallbackReplySubmit = "reply_to_customer_submit"

	// block_id/action_id поля ввода в модалке ответа
	ReplyBlockID  = "msg"
	ReplyActionID = "content"
)

// Interaction интерактивный payload от Slack (поле payload формы)
type Interaction struct {
	Type        string        `json:"type"`
	User        *SlackUser    `json:"user,omitempty"`
	TriggerID   string        `json:"trigger_id,omitempty"`
	ResponseURL string        `json:"response_url,omitempty"`
	Channel     *SlackChannel `json:"channel,omitempty"`
	Actions     []Action      `json:"actions,omitempty"`
	View        *View         `json:"view,omitempty"`
}

// Action нажатая кнопка: value несёт ID заявки
type Action struct {
	ActionID string `json:"action_id"`
	Value    string `json:"value,omitempty"`
}

// SlackUser действующий пользователь из payload
type SlackUser struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SlackChannel канал, в котором произошло взаимодействие
type SlackChannel struct {
	ID string `json:"id"`
}

// View модалка: private_metadata несёт ID заявки и канал для эфемерных ответов
type View struct {
	CallbackID      string    `json:"callback_id"`
	PrivateMetadata string    `json:"private_metadata,omitempty"`
	State           ViewState `json:"state"`
}

// ViewState значения полей ввода модалки: block_id -> action_id -> value
type ViewState struct {
	Values map[string]map[string]ViewStateValue `json:"values"`
}

type ViewStateValue struct {
	Value string `json:"value"`
}

// ReplyText достаёт текст ответа из модалки
func (v *View) ReplyText() string {
	if v == nil {
		return ""
	}
	block, ok := v.State.Values[ReplyBlockID]
	if !ok {
		return ""
	}
	return block[ReplyActionID].Value
}

// ViewMetadata содержимое private_metadata модалки ответа
type ViewMetadata struct {
	RequestID string `json:"request_id"`
	ChannelID string `json:"channel_id,omitempty"`
}
