package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"assetpulse/internal/model"
	"assetpulse/pkg/config"
	"assetpulse/pkg/logger"
)

// FeishuNotifier sends critical alert notifications to Feishu (Lark)
type FeishuNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewFeishuNotifier creates a new Feishu notifier
func NewFeishuNotifier() *FeishuNotifier {
	// Priority: config file > environment variable
	var webhookURL string
	if config.GlobalConfig != nil && config.GlobalConfig.Notification.FeishuWebhookURL != "" {
		webhookURL = config.GlobalConfig.Notification.FeishuWebhookURL
		logger.Info("Using Feishu webhook URL from config file")
	} else {
		webhookURL = os.Getenv("FEISHU_WEBHOOK_URL")
		if webhookURL != "" {
			logger.Info("Using Feishu webhook URL from environment variable")
		}
	}

	if webhookURL == "" {
		logger.Warn("Feishu webhook URL not configured (check config file or FEISHU_WEBHOOK_URL env), alert notifications will be disabled")
	}

	return &FeishuNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyCriticalAlert sends a critical alert notification to Feishu
func (f *FeishuNotifier) NotifyCriticalAlert(ctx context.Context, macAddress string, alert model.Alert, healthScore int) error {
	if f.webhookURL == "" {
		return nil
	}

	message := f.buildAlertMessage(macAddress, alert, healthScore)

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Feishu message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", f.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Feishu notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Feishu API returned status code: %d", resp.StatusCode)
	}

	logger.InfoCtx(ctx, "Feishu notification sent for asset: %s", macAddress)
	return nil
}

// buildAlertMessage builds a Feishu message card for a critical alert
func (f *FeishuNotifier) buildAlertMessage(macAddress string, alert model.Alert, healthScore int) map[string]interface{} {
	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"template": "red",
				"title": map[string]interface{}{
					"content": "Critical Asset Alert",
					"tag":     "plain_text",
				},
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"content": fmt.Sprintf("**Asset**: %s\n%s", macAddress, alert.Message),
						"tag":     "lark_md",
					},
				},
				map[string]interface{}{
					"tag": "hr",
				},
				map[string]interface{}{
					"tag": "div",
					"fields": []interface{}{
						map[string]interface{}{
							"is_short": true,
							"text": map[string]interface{}{
								"content": fmt.Sprintf("**Alert Type**\n%s", alert.Type),
								"tag":     "lark_md",
							},
						},
						map[string]interface{}{
							"is_short": true,
							"text": map[string]interface{}{
								"content": fmt.Sprintf("**Severity**\n%s", alert.Severity),
								"tag":     "lark_md",
							},
						},
					},
				},
				map[string]interface{}{
					"tag": "div",
					"fields": []interface{}{
						map[string]interface{}{
							"is_short": true,
							"text": map[string]interface{}{
								"content": fmt.Sprintf("**Health Score**\n%d", healthScore),
								"tag":     "lark_md",
							},
						},
						map[string]interface{}{
							"is_short": true,
							"text": map[string]interface{}{
								"content": fmt.Sprintf("**Raised At**\n%s", alert.Timestamp.Format("2006-01-02 15:04:05")),
								"tag":     "lark_md",
							},
						},
					},
				},
			},
		},
	}
}
