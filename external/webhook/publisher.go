package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/goalsight/matchaudit/internal/domain/report"
	"github.com/goalsight/matchaudit/internal/platform/logging"
)

const defaultTimeout = 5 * time.Second

type PublisherConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
	Logger  *logging.Logger
}

// Publisher posts completed audit reports to a configured webhook endpoint.
// Delivery is fire-and-forget from the pipeline's point of view; the caller
// decides whether a failed delivery matters.
type Publisher struct {
	client  *fasthttp.Client
	url     string
	token   string
	timeout time.Duration
	logger  *logging.Logger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, crerr.New("webhook url is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, crerr.Newf("webhook url %q must use http or https", url)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Publisher{
		client:  &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		url:     url,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Publish delivers one report. The payload is the report's JSON form wrapped
// in a small envelope so consumers can route on event type.
func (p *Publisher) Publish(ctx context.Context, rep report.Report) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	envelope := struct {
		Event  string        `json:"event"`
		SentAt string        `json:"sent_at"`
		Report report.Report `json:"report"`
	}{
		Event:  "audit.report.completed",
		SentAt: time.Now().UTC().Format(time.RFC3339),
		Report: rep,
	}

	body, err := sonic.Marshal(envelope)
	if err != nil {
		return crerr.Wrap(err, "marshal report payload")
	}
	_, _ = buf.Write(body)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.SetBody(buf.B)

	deadline := time.Now().Add(p.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("deliver report run_id=%s: %w", rep.RunID, err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("deliver report run_id=%s: webhook status=%d", rep.RunID, status)
	}

	p.logger.Debug("report delivered",
		"run_id", rep.RunID,
		"fixture_id", rep.FixtureID,
		"status", status,
	)
	return nil
}
