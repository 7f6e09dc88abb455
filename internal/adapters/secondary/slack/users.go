package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// UserInfoResponse ответ users.info
type UserInfoResponse struct {
	APIResponse
	User struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		RealName string `json:"real_name"`
		Profile  struct {
			DisplayName string `json:"display_name"`
			RealName    string `json:"real_name"`
		} `json:"profile"`
	} `json:"user"`
}

// GetUserDisplayName возвращает отображаемое имя пользователя.
// users.info принимает только form-параметры, поэтому запрос идёт GET-ом.
func (c *Client) GetUserDisplayName(ctx context.Context, userID string) (string, error) {
	reqURL := c.baseURL + "/users.info?user=" + url.QueryEscape(userID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("failed to send request to slack",
			"error", err,
			"method", "users.info",
			"user_id", userID,
		)
		return "", fmt.Errorf("failed to send request to slack: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp UserInfoResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		c.log.Error("failed to unmarshal response",
			"error", err,
			"method", "users.info",
			"status_code", resp.StatusCode,
			"body", string(body),
		)
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !apiResp.OK {
		c.log.Error("slack API returned error",
			"method", "users.info",
			"slack_error", apiResp.Error,
			"user_id", userID,
		)
		return "", fmt.Errorf("slack API error: %s", apiResp.Error)
	}

	// Порядок предпочтения совпадает с тем, что показывает сам Slack.
	switch {
	case apiResp.User.Profile.DisplayName != "":
		return apiResp.User.Profile.DisplayName, nil
	case apiResp.User.RealName != "":
		return apiResp.User.RealName, nil
	case apiResp.User.Profile.RealName != "":
		return apiResp.User.Profile.RealName, nil
	case apiResp.User.Name != "":
		return apiResp.User.Name, nil
	}

	return userID, nil
}
