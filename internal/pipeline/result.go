package pipeline

import "errors"

// ErrEmptyText marks the one validation failure in the pipeline:
// a request whose text is empty or whitespace-only.
var ErrEmptyText = errors.New("text_to_analyze is empty or whitespace-only")

// Result is the structured status a stage hands back to its transport.
// 2xx: processed; 4xx: rejected, do not redeliver; 5xx: dependency
// failure, redelivery is up to the transport.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func success(body string) Result {
	return Result{StatusCode: 200, Body: body}
}

func clientError(body string) Result {
	return Result{StatusCode: 400, Body: body}
}

func serverError(body string) Result {
	return Result{StatusCode: 500, Body: body}
}
