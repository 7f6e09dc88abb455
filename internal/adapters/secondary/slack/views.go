package slack

import (
	"context"
	"fmt"
)

// OpenViewRequest запрос views.open
type OpenViewRequest struct {
	TriggerID string `json:"trigger_id"`
	View      any    `json:"view"`
}

// OpenView открывает модальное окно по trigger_id из интеракции
func (c *Client) OpenView(ctx context.Context, triggerID string, view any) error {
	req := OpenViewRequest{
		TriggerID: triggerID,
		View:      view,
	}

	var resp APIResponse
	if err := c.call(ctx, "views.open", req, &resp); err != nil {
		return err
	}

	if !resp.OK {
		c.log.Error("slack API returned error",
			"method", "views.open",
			"slack_error", resp.Error,
		)
		return fmt.Errorf("slack API error: %s", resp.Error)
	}

	return nil
}
