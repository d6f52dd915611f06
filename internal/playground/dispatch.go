package playground

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
)

const (
	defaultArrayTruncate = 25
	defaultTimeout       = 30 * time.Second
)

// Target selects where a request is sent.
type Target int

// Dispatch targets.
const (
	TargetMock Target = iota
	TargetReal
)

// DispatchOptions configures a Dispatcher.
type DispatchOptions struct {
	// TargetURL is the base URL of the real backend. Requests built with an
	// /api prefix are appended to it.
	TargetURL string
	// ArrayTruncate caps the number of array items kept in response data.
	ArrayTruncate int
	// Timeout bounds real backend calls.
	Timeout time.Duration
}

// Result is the outcome of dispatching one request.
type Result struct {
	Request    Request           `json:"request"`
	Status     int               `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Response   Envelope          `json:"response"`
	Truncated  bool              `json:"truncated,omitempty"`
	TotalCount int               `json:"total_count,omitempty"`
	Mock       bool              `json:"mock"`
	Duration   time.Duration     `json:"duration"`
}

// Dispatcher sends built requests to the mock backend or a real one.
type Dispatcher struct {
	log      logger.ILogger
	client   *http.Client
	target   string
	truncate int
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(log logger.ILogger, opts DispatchOptions) *Dispatcher {
	truncate := opts.ArrayTruncate
	if truncate <= 0 {
		truncate = defaultArrayTruncate
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Dispatcher{
		log:      log,
		client:   &http.Client{Timeout: timeout},
		target:   strings.TrimSuffix(opts.TargetURL, "/"),
		truncate: truncate,
	}
}

// Dispatch sends req. Transport failures are reported in the result envelope;
// an error is only returned when ctx is done.
func (d *Dispatcher) Dispatch(ctx context.Context, mock *MockBackend, target Target, req Request) (Result, error) {
	start := time.Now()

	var (
		result Result
		err    error
	)

	if target == TargetMock || d.target == "" {
		result = d.dispatchMock(mock, req)
	} else {
		result, err = d.dispatchReal(ctx, req)
		if err != nil {
			return Result{}, err
		}
	}

	result.Request = req
	result.Duration = time.Since(start)
	d.truncateData(&result)

	d.log.Infof("%s %s -> %d (mock=%t)", req.Method, req.URL, result.Status, result.Mock)

	return result, nil
}

func (d *Dispatcher) dispatchMock(mock *MockBackend, req Request) Result {
	if mock == nil {
		mock = NewMockBackend(nil)
	}

	var body []byte
	if req.Body != nil {
		body, _ = json.Marshal(req.Body)
	}

	status, env := mock.Respond(req.Method, req.URL, body)

	return Result{
		Status:   status,
		Headers:  map[string]string{"content-type": "application/json"},
		Response: env,
		Mock:     true,
	}
}

func (d *Dispatcher) dispatchReal(ctx context.Context, req Request) (Result, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return requestError(fmt.Sprintf("Failed to encode request body: %v", err)), nil
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, d.target+req.URL, body)
	if err != nil {
		return requestError(fmt.Sprintf("Failed to create request: %v", err)), nil
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}

		d.log.Errorf("Request %s %s failed: %v", req.Method, req.URL, err)

		return requestError(fmt.Sprintf("Request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return requestError(fmt.Sprintf("Failed to read response: %v", err)), nil
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[strings.ToLower(name)] = resp.Header.Get(name)
	}

	return Result{
		Status:   resp.StatusCode,
		Headers:  headers,
		Response: decodeEnvelope(resp.StatusCode, resp.Status, data),
	}, nil
}

// decodeEnvelope reads a backend response, wrapping bodies that are not already enveloped.
func decodeEnvelope(status int, statusText string, data []byte) Envelope {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		if _, ok := fields["success"]; ok {
			var env Envelope
			if err := json.Unmarshal(data, &env); err == nil {
				if env.Meta.HTTPStatusCode == 0 {
					env.Meta.HTTPStatusCode = status
				}

				return env
			}
		}
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		payload = string(data)
	}

	if status < 200 || status >= 300 {
		env := errorEnvelope(status, CodeAPIError, statusText)
		env.Data = payload

		return env
	}

	return successEnvelope(payload, status, CodeSuccess, statusText)
}

func requestError(message string) Result {
	return Result{
		Response: errorEnvelope(0, CodeRequestError, message),
	}
}

func (d *Dispatcher) truncateData(result *Result) {
	items, ok := result.Response.Data.([]any)
	if !ok || len(items) <= d.truncate {
		return
	}

	result.TotalCount = len(items)
	result.Truncated = true
	result.Response.Data = items[:d.truncate]
}
