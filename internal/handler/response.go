package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/logger"
)

// Body is the success envelope.
type Body struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody is the failure envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a client-safe message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func baseHeaders() map[string]string {
	return map[string]string{
		"content-type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "*",
	}
}

func respondJSON(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorw("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response"}}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    baseHeaders(),
		Body:       string(body),
	}
}

func respond(status int, message string, data any) events.APIGatewayProxyResponse {
	return respondJSON(status, Body{Message: message, Data: data})
}

// respondError logs err and converts it into its response. Causes are
// logged, never returned.
func respondError(req events.APIGatewayProxyRequest, err error) events.APIGatewayProxyResponse {
	e := apperr.As(err)
	logRequestError(req, e)
	return respondJSON(e.Status(), ErrorBody{Error: ErrorDetail{Code: e.Code, Message: e.Message}})
}

func withCookie(resp events.APIGatewayProxyResponse, cookie string) events.APIGatewayProxyResponse {
	resp.Headers["Set-Cookie"] = cookie
	return resp
}
