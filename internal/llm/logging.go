package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// RequestEvent is one recorded generation attempt.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventSink receives request events. The store implements this; a nil
// sink disables logging entirely.
type EventSink interface {
	RecordOracleRequest(ctx context.Context, ev RequestEvent) error
}

// LoggingProvider is a decorator that records every generation call.
type LoggingProvider struct {
	inner Provider
	sink  EventSink
}

// WithLogging wraps a Provider with request event recording.
func WithLogging(p Provider, sink EventSink) Provider {
	return &LoggingProvider{inner: p, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	ev := RequestEvent{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
		ev.ResponseBody = string(resp.Content)
		if c := LookupCost(resp.Model); c != nil {
			ev.CostUSD = c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}

	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// A logging failure must never fail the request itself.
	if logErr := l.sink.RecordOracleRequest(ctx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record oracle request event: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request in a readable transcript form.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.Write(def)
			b.WriteString("\n")
		}
	}

	return b.String()
}
