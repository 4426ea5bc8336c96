// Package devserver serves the Lambda handler over plain HTTP for local
// development. Requests are converted to API Gateway proxy events so the
// same routing and response shaping runs locally.
package devserver

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pricofy/games-api/internal/logger"
)

// maxBodyBytes matches the API Gateway payload limit.
const maxBodyBytes = 10 << 20

// ProxyHandler serves one API Gateway proxy event.
type ProxyHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
	Routes() []string
}

// NewRouter mounts every route of h on a chi router.
func NewRouter(h ProxyHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	for _, route := range h.Routes() {
		method, pattern, ok := strings.Cut(route, " ")
		if !ok {
			continue
		}
		r.Method(method, pattern, adapt(h, pattern))
	}
	r.Options("/*", adapt(h, ""))
	r.NotFound(adapt(h, ""))
	r.MethodNotAllowed(adapt(h, ""))
	return r
}

// adapt converts the HTTP request into a proxy event for resource.
func adapt(h ProxyHandler, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := toEvent(r, resource)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		resp, err := h.Handle(r.Context(), event)
		if err != nil {
			logger.Log.Errorw("handler returned an error", "error", err, "path", r.URL.Path)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}
}

func toEvent(r *http.Request, resource string) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	event := events.APIGatewayProxyRequest{
		Resource:                        resource,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         map[string]string{},
		MultiValueHeaders:               map[string][]string{},
		QueryStringParameters:           map[string]string{},
		MultiValueQueryStringParameters: map[string][]string{},
		PathParameters:                  map[string]string{},
		Body:                            string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  middleware.GetReqID(r.Context()),
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
		},
	}

	for k, v := range r.Header {
		event.Headers[k] = strings.Join(v, ", ")
		event.MultiValueHeaders[k] = v
	}
	// cookies are joined with "; ", not ","
	if cookies := r.Header.Values("Cookie"); len(cookies) > 0 {
		event.Headers["Cookie"] = strings.Join(cookies, "; ")
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			event.QueryStringParameters[k] = v[0]
		}
		event.MultiValueQueryStringParameters[k] = v
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			event.PathParameters[key] = rctx.URLParams.Values[i]
		}
	}
	return event, nil
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp.Body)
}
