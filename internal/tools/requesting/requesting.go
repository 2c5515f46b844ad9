package requesting

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"bitbucket.org/crgw/transfers-web/internal/schema"
)

type Key string

const (
	CorrelationIdKey Key = "correlationId"
)

func WithCorrelationId(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, CorrelationIdKey, correlationId)
}

func CorrelationId(ctx context.Context) string {
	correlationId, _ := ctx.Value(CorrelationIdKey).(string)
	return correlationId
}

func isValidResponse(code int) bool {
	return code >= 200 && code <= 299
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RequestErrors turns transport failures and non 2xx answers into schema.APIError.
// The remote APIs put a human readable message into the `error` field.
func RequestErrors(response *http.Response, err error) (*http.Response, error) {
	if err != nil {
		if os.IsTimeout(err) {
			return nil, schema.APIError{StatusCode: http.StatusGatewayTimeout, Err: err}
		}

		return nil, schema.APIError{StatusCode: http.StatusBadGateway, Err: err}
	}

	if isValidResponse(response.StatusCode) {
		return response, nil
	}

	defer response.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(response.Body, 64<<10))

	var payload errorBody
	_ = json.Unmarshal(body, &payload)

	message := payload.Error
	if message == "" {
		message = payload.Message
	}

	return nil, schema.APIError{
		StatusCode: response.StatusCode,
		Message:    message,
	}
}

// DecodeJSON reads a successful response into destination and closes the body.
func DecodeJSON(response *http.Response, destination any) error {
	defer response.Body.Close()

	if destination == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(destination); err != nil {
		return schema.APIError{StatusCode: http.StatusBadGateway, Err: err}
	}

	return nil
}
