package protocol

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
	"github.com/sony/gobreaker"
)

// HTTPClient は提出サーバー・検証サーバーに対するClientの実装
// ダミー通信は別のCircuit Breakerで数え、実フローの判定に影響させない。
type HTTPClient struct {
	httpClient      *resty.Client
	cb              *gobreaker.CircuitBreaker
	decoyCB         *gobreaker.CircuitBreaker
	submissionURL   string
	verificationURL string
}

// NewHTTPClient は新しいHTTPClientを生成する。
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	httpClient := resty.New().
		SetTimeout(config.HTTPRequestTimeout)

	return &HTTPClient{
		httpClient:      httpClient,
		cb:              gobreaker.NewCircuitBreaker(breakerSettings(config.CBName)),
		decoyCB:         gobreaker.NewCircuitBreaker(breakerSettings(config.CBDecoyName)),
		submissionURL:   strings.TrimRight(cfg.SubmissionAPIURL, "/"),
		verificationURL: strings.TrimRight(cfg.VerificationAPIURL, "/"),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					logging.WithEventID("CB_OPEN"),
					"cb_name", name,
					"from", from.String(),
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					logging.WithEventID("CB_HALF_OPEN"),
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					logging.WithEventID("CB_CLOSE"),
					"cb_name", name,
				)
			}
		},
	}
}

// SubmitKeys はMobileTestIdで診断キーを提出する。
func (c *HTTPClient) SubmitKeys(ctx context.Context, req *SubmissionRequest) error {
	built, err := BuildSubmission(req)
	if err != nil {
		return err
	}
	return c.submit(ctx, built, req.Fake)
}

// SubmitWithCoviCode はcovi-codeで診断キーを提出する。
func (c *HTTPClient) SubmitWithCoviCode(ctx context.Context, req *CoviCodeSubmissionRequest) error {
	built, err := BuildCoviCodeSubmission(req)
	if err != nil {
		return err
	}
	return c.submit(ctx, built, req.Fake)
}

func (c *HTTPClient) submit(ctx context.Context, req *Request, fake bool) error {
	resp, err := c.execute(ctx, fake, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeaders(req.Headers).
			SetBody(req.Body).
			Post(c.submissionURL + PathDiagnosisKeys)
	})
	if err != nil {
		return err
	}
	return ClassifySubmissionStatus(resp.StatusCode(), req.Kind)
}

// FetchTestResult は登録トークンに対応する検査結果を取得する。
func (c *HTTPClient) FetchTestResult(ctx context.Context, token string, fake bool) (*TestResultResponse, error) {
	resp, err := c.execute(ctx, fake, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader(HeaderFake, fakeHeaderValue(fake)).
			SetHeader("Accept", ContentTypeJSON).
			Get(c.testResultURL(token))
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &ServerError{StatusCode: resp.StatusCode()}
	}
	return DecodeTestResult(resp.Body())
}

// AckTestDownload は検査結果の受領確認を送信する。
func (c *HTTPClient) AckTestDownload(ctx context.Context, token string, fake bool) error {
	resp, err := c.execute(ctx, fake, func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader(HeaderFake, fakeHeaderValue(fake)).
			Post(c.testResultURL(token) + PathAckSuffix)
	})
	if err != nil {
		return err
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return &ServerError{StatusCode: resp.StatusCode()}
	}
}

func (c *HTTPClient) testResultURL(token string) string {
	return c.verificationURL + PathTestResult + url.PathEscape(token)
}

// execute はCircuit Breaker経由でリクエストを送信する。
// 5xxと通信エラーのみCB失敗として数え、4xxはレスポンスとして呼び出し元へ返す。
func (c *HTTPClient) execute(ctx context.Context, fake bool, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()

	cb := c.cb
	if fake {
		cb = c.decoyCB
	}

	result, err := cb.Execute(func() (any, error) {
		resp, err := send(c.httpClient.R().SetContext(ctx))
		if err != nil {
			return nil, &ConnectionError{Cause: err}
		}
		if resp.StatusCode() >= 500 {
			return nil, &ServerError{StatusCode: resp.StatusCode()}
		}
		return resp, nil
	})

	latencyMs := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = ErrCircuitOpen
		}
		c.logFailure(fake, err, 0, latencyMs)
		return nil, err
	}

	resp, ok := result.(*resty.Response)
	if !ok {
		return nil, ErrInvalidResponse
	}

	if resp.StatusCode() >= 300 {
		c.logFailure(fake, nil, resp.StatusCode(), latencyMs)
	} else {
		slog.Debug("cwa api success",
			logging.WithHTTPStatus(resp.StatusCode()),
			logging.WithLatency(latencyMs),
			logging.WithFake(fake),
		)
	}
	return resp, nil
}

// logFailure はダミー通信の失敗をdebugレベルに留める。
func (c *HTTPClient) logFailure(fake bool, err error, status int, latencyMs int64) {
	level := slog.LevelError
	if fake {
		level = slog.LevelDebug
	}
	attrs := []any{
		logging.WithEventID("CWA_API_ERR"),
		logging.WithLatency(latencyMs),
		logging.WithFake(fake),
	}
	if err != nil {
		attrs = append(attrs, logging.WithError(err))
	}
	if status != 0 {
		attrs = append(attrs, logging.WithHTTPStatus(status))
	}
	slog.Log(context.Background(), level, "cwa api error", attrs...)
}

var _ Client = (*HTTPClient)(nil)
