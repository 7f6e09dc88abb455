package blocks

import (
	"encoding/json"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

// Modal модальное окно views.open
type Modal struct {
	Type            string `json:"type"`
	CallbackID      string `json:"callback_id"`
	PrivateMetadata string `json:"private_metadata,omitempty"`
	Title           *Text  `json:"title"`
	Submit          *Text  `json:"submit"`
	Close           *Text  `json:"close"`
	Blocks          []any  `json:"blocks"`
}

type InputBlock struct {
	Type    string `json:"type"`
	BlockID string `json:"block_id"`
	Label   *Text  `json:"label"`
	Element any    `json:"element"`
}

type PlainTextInput struct {
	Type        string `json:"type"`
	ActionID    string `json:"action_id"`
	Multiline   bool   `json:"multiline,omitempty"`
	Placeholder *Text  `json:"placeholder,omitempty"`
}

// ReplyModal собирает модалку ответа клиенту. ID заявки и канал уходят
// в private_metadata и возвращаются в view_submission.
func ReplyModal(requestID, channelID string) (Modal, error) {
	metadata, err := json.Marshal(domain.ViewMetadata{
		RequestID: requestID,
		ChannelID: channelID,
	})
	if err != nil {
		return Modal{}, err
	}

	return Modal{
		Type:            "modal",
		CallbackID:      domain.CallbackReplySubmit,
		PrivateMetadata: string(metadata),
		Title:           plain("Message to customer"),
		Submit:          plain("Send"),
		Close:           plain("Cancel"),
		Blocks: []any{
			InputBlock{
				Type:    "input",
				BlockID: domain.ReplyBlockID,
				Label:   plain("Message"),
				Element: PlainTextInput{
					Type:        "plain_text_input",
					ActionID:    domain.ReplyActionID,
					Multiline:   true,
					Placeholder: plain("Type your message…"),
				},
			},
		},
	}, nil
}
