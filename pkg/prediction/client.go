package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"assetpulse/internal/model"
	"assetpulse/pkg/config"
	"assetpulse/pkg/logger"
)

// Client calls the external ML prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// predictRequest is the prediction service payload
type predictRequest struct {
	MACAddress     string                  `json:"mac_address"`
	CurrentData    model.TelemetrySample   `json:"current_data"`
	HistoricalData []model.TelemetrySample `json:"historical_data"`
}

// NewClient creates a new prediction service client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Prediction.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.PredictionTimeout(),
		},
	}
}

// Predict requests predictions for an asset from the ML service
func (c *Client) Predict(ctx context.Context, macAddress string, current model.TelemetrySample, historical []model.TelemetrySample) (model.PredictionSet, error) {
	url := c.baseURL + "/predict"

	reqBody := &predictRequest{
		MACAddress:     macAddress,
		CurrentData:    current,
		HistoricalData: historical,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return model.PredictionSet{}, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return model.PredictionSet{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.PredictionSet{}, fmt.Errorf("failed to call prediction service: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PredictionSet{}, fmt.Errorf("failed to read prediction response: %w", err)
	}

	logger.Debugf("Prediction service response for %s: status %d", macAddress, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.PredictionSet{}, fmt.Errorf("prediction service error (status %d): %s", resp.StatusCode, string(respData))
	}

	var predictions model.PredictionSet
	if err := json.Unmarshal(respData, &predictions); err != nil {
		return model.PredictionSet{}, fmt.Errorf("failed to parse prediction response: %w", err)
	}

	return predictions, nil
}
