package slack

import (
	"context"
	"fmt"

	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
)

// PostMessageRequest запрос chat.postMessage
type PostMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Blocks  []any  `json:"blocks,omitempty"`
}

// PostMessageResponse ответ chat.postMessage
type PostMessageResponse struct {
	APIResponse
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// PostMessage публикует сообщение в канал и возвращает ссылку (channel, ts)
func (c *Client) PostMessage(ctx context.Context, channel, text string, blocks []any) (portSlack.MessageRef, error) {
	req := PostMessageRequest{
		Channel: channel,
		Text:    text,
		Blocks:  blocks,
	}

	var resp PostMessageResponse
	if err := c.call(ctx, "chat.postMessage", req, &resp); err != nil {
		return portSlack.MessageRef{}, err
	}

	if !resp.OK {
		c.log.Error("slack API returned error",
			"method", "chat.postMessage",
			"slack_error", resp.Error,
			"channel", channel,
		)
		return portSlack.MessageRef{}, fmt.Errorf("slack API error: %s", resp.Error)
	}

	c.log.Debug("message posted successfully",
		"channel", resp.Channel,
		"ts", resp.TS,
	)

	return portSlack.MessageRef{Channel: resp.Channel, TS: resp.TS}, nil
}

// UpdateMessageRequest запрос chat.update
type UpdateMessageRequest struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
	Text    string `json:"text"`
	Blocks  []any  `json:"blocks,omitempty"`
}

// UpdateMessage заменяет содержимое ранее отправленного сообщения
func (c *Client) UpdateMessage(ctx context.Context, ref portSlack.MessageRef, text string, blocks []any) error {
	req := UpdateMessageRequest{
		Channel: ref.Channel,
		TS:      ref.TS,
		Text:    text,
		Blocks:  blocks,
	}

	var resp APIResponse
	if err := c.call(ctx, "chat.update", req, &resp); err != nil {
		return err
	}

	if !resp.OK {
		c.log.Error("slack API returned error",
			"method", "chat.update",
			"slack_error", resp.Error,
			"channel", ref.Channel,
			"ts", ref.TS,
		)
		return fmt.Errorf("slack API error: %s", resp.Error)
	}

	return nil
}

// ThreadReplyRequest запрос chat.postMessage с thread_ts
type ThreadReplyRequest struct {
	Channel  string `json:"channel"`
	ThreadTS string `json:"thread_ts"`
	Text     string `json:"text"`
}

// PostThreadReply отвечает в тред под ранее отправленным сообщением
func (c *Client) PostThreadReply(ctx context.Context, ref portSlack.MessageRef, text string) error {
	req := ThreadReplyRequest{
		Channel:  ref.Channel,
		ThreadTS: ref.TS,
		Text:     text,
	}

	var resp APIResponse
	if err := c.call(ctx, "chat.postMessage", req, &resp); err != nil {
		return err
	}

	if !resp.OK {
		c.log.Error("slack API returned error",
			"method", "chat.postMessage",
			"slack_error", resp.Error,
			"channel", ref.Channel,
			"thread_ts", ref.TS,
		)
		return fmt.Errorf("slack API error: %s", resp.Error)
	}

	return nil
}

// PostEphemeralRequest запрос chat.postEphemeral
type PostEphemeralRequest struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Text    string `json:"text"`
}

// PostEphemeral отправляет сообщение, видимое только одному пользователю канала
func (c *Client) PostEphemeral(ctx context.Context, channel, user, text string) error {
	req := PostEphemeralRequest{
		Channel: channel,
		User:    user,
		Text:    text,
	}

	var resp APIResponse
	if err := c.call(ctx, "chat.postEphemeral", req, &resp); err != nil {
		return err
	}

	if !resp.OK {
		c.log.Error("slack API returned error",
			"method", "chat.postEphemeral",
			"slack_error", resp.Error,
			"channel", channel,
			"user", user,
		)
		return fmt.Errorf("slack API error: %s", resp.Error)
	}

	return nil
}
