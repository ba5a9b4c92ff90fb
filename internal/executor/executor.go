// Package executor performs single blocking HTTP calls that exchange JSON.
//
// An Executor merges a fixed set of default headers with per-call overrides,
// sends the request, decodes the response body using the charset the server
// declared and unmarshals it into a caller supplied value. Non-200 responses
// become errors: a StructuredError when the caller supplied a failure shape,
// a TransportError otherwise.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/brizzai/restexec/internal/logger"
	"go.uber.org/zap"
)

const (
	dialTimeout         = 30 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Codec turns response text into values
type Codec interface {
	Unmarshal(data []byte, v any) error
}

// jsonCodec ignores fields the target type does not declare
type jsonCodec struct{}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Proxy is an outbound HTTP proxy address. It is used only when both
// fields are set.
type Proxy struct {
	Host string
	Port int
}

// Enabled reports whether requests should go through the proxy
func (p Proxy) Enabled() bool {
	return p.Host != "" && p.Port > 0
}

// URL returns the proxy address as an http URL
func (p Proxy) URL() *url.URL {
	return &url.URL{Scheme: "http", Host: net.JoinHostPort(p.Host, strconv.Itoa(p.Port))}
}

// Config holds the construction-time settings of an Executor
type Config struct {
	// ReadTimeout bounds the wait for response headers and for each body read. Zero disables it.
	ReadTimeout time.Duration
	Proxy       Proxy
	// UserAgent replaces DefaultUserAgent when set
	UserAgent string
	// DefaultHeaders are layered over the built-in defaults
	DefaultHeaders Headers
	// LogBodies enables debug logging of request and response bodies
	LogBodies bool
}

// Request describes one call
type Request struct {
	Method Method
	URL    string
	// Body is sent as UTF-8 bytes; empty means no body
	Body string
	// Headers override the executor defaults key by key. They are never modified.
	Headers Headers
	// ContentType, when set, wins over any Content-Type in Headers
	ContentType string
}

// Executor runs requests. It is safe for concurrent use.
type Executor struct {
	client         Doer
	codec          Codec
	defaultHeaders Headers
	readTimeout    time.Duration
	proxy          *url.URL
	logBodies      bool
}

// Option customises an Executor
type Option func(*Executor)

// WithDoer replaces the HTTP client, mostly for tests
func WithDoer(d Doer) Option {
	return func(e *Executor) {
		e.client = d
	}
}

// WithCodec replaces the JSON codec
func WithCodec(c Codec) Option {
	return func(e *Executor) {
		e.codec = c
	}
}

// New creates an Executor from cfg
func New(cfg Config, opts ...Option) (*Executor, error) {
	if cfg.ReadTimeout < 0 {
		return nil, fmt.Errorf("read timeout must not be negative: %s", cfg.ReadTimeout)
	}

	defaults := DefaultHeaders()
	if cfg.UserAgent != "" {
		defaults[HeaderUserAgent] = cfg.UserAgent
	}

	e := &Executor{
		codec:          jsonCodec{},
		defaultHeaders: Overlay(defaults, cfg.DefaultHeaders),
		readTimeout:    cfg.ReadTimeout,
		logBodies:      cfg.LogBodies,
	}

	if cfg.Proxy.Enabled() {
		e.proxy = cfg.Proxy.URL()
		logger.Info("Using proxy", zap.String("proxy", e.proxy.String()))
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		e.client = newHTTPClient(e.proxy, e.readTimeout)
	}

	return e, nil
}

// newHTTPClient builds a client that opens a fresh connection per call
func newHTTPClient(proxy *url.URL, readTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: dialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: readTimeout,
		DisableKeepAlives:     true,
	}
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	return &http.Client{Transport: transport}
}

// DefaultHeaders returns a copy of the executor's default header set
func (e *Executor) DefaultHeaders() Headers {
	return e.defaultHeaders.Clone()
}

// MergeHeaders computes the header set sent for req: the defaults overlaid
// by req.Headers, then Accept forced to JSON and Content-Type forced to
// req.ContentType when one is given. Forced names replace entries in any
// letter case.
func (e *Executor) MergeHeaders(req *Request) Headers {
	merged := Overlay(e.defaultHeaders, req.Headers)
	merged.Del(HeaderAccept)
	merged[HeaderAccept] = MIMEJSON
	if req.ContentType != "" {
		merged.Del(HeaderContentType)
		merged[HeaderContentType] = req.ContentType
	}
	return merged
}

// Prepare builds the outgoing request without sending it and returns it
// together with the merged header set.
func (e *Executor) Prepare(ctx context.Context, req *Request) (*http.Request, Headers, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("request cannot be nil")
	}
	if !req.Method.Valid() {
		return nil, nil, &ConfigurationError{Method: req.Method, URL: req.URL, Err: ErrUnsupportedMethod}
	}

	merged := e.MergeHeaders(req)

	var body io.Reader
	if len(req.Body) > 0 {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method.String(), req.URL, body)
	if err != nil {
		return nil, nil, &ConfigurationError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("%w: %w", ErrMalformedURL, err)}
	}
	if scheme := httpReq.URL.Scheme; (scheme != "http" && scheme != "https") || httpReq.URL.Host == "" {
		return nil, nil, &ConfigurationError{Method: req.Method, URL: req.URL, Err: ErrMalformedURL}
	}

	for _, key := range merged.Keys() {
		httpReq.Header.Set(key, merged[key])
	}
	if len(req.Body) > 0 {
		httpReq.Header.Set(HeaderContentLength, strconv.Itoa(len(req.Body)))
	}

	return httpReq, merged, nil
}

// Execute sends req and decodes a 200 response into success. On any other
// status the body is decoded into failure and returned as a
// *StructuredError; with a nil failure a *TransportError carrying the
// status and raw body is returned instead. success and failure must be
// pointers or nil.
func (e *Executor) Execute(ctx context.Context, req *Request, success, failure any) error {
	httpReq, merged, err := e.Prepare(ctx, req)
	if err != nil {
		return err
	}

	logger.Debug("Executing request",
		zap.String("method", req.Method.String()),
		zap.String("url", req.URL),
	)
	if e.logBodies {
		logger.Debug("Request details",
			zap.Any("headers", merged),
			zap.String("body", req.Body),
		)
	}

	var timer *readTimer
	if e.readTimeout > 0 {
		reqCtx, cancel := context.WithCancel(httpReq.Context())
		defer cancel()
		httpReq = httpReq.WithContext(reqCtx)
		timer = newReadTimer(e.readTimeout, cancel)
		defer timer.stop()
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	label, declared := ResponseCharset(resp.Header.Get(HeaderContentType))
	logger.Debug("Request http status", zap.Int("status", resp.StatusCode))

	var body io.Reader
	if resp.Body != nil && resp.Body != http.NoBody {
		body = resp.Body
		if timer != nil {
			body = timer.wrap(resp.Body)
		}
	}

	text, present, err := DecodeBody(body, label, declared)
	if err != nil {
		if timer != nil && timer.fired() {
			err = fmt.Errorf("%w after %s: %w", ErrReadTimeout, e.readTimeout, err)
		}
		return &TransportError{Method: req.Method, URL: req.URL, StatusCode: resp.StatusCode, Err: err}
	}
	if e.logBodies {
		logger.Debug("Response body", zap.Int("status", resp.StatusCode), zap.String("body", text))
	}

	if resp.StatusCode != http.StatusOK {
		if failure == nil {
			return &TransportError{
				Method:     req.Method,
				URL:        req.URL,
				StatusCode: resp.StatusCode,
				Body:       text,
				HasBody:    present,
				Err:        ErrUnexpectedStatus,
			}
		}
		if err := e.decode(text, present, failure); err != nil {
			return &TransportError{
				Method:     req.Method,
				URL:        req.URL,
				StatusCode: resp.StatusCode,
				Body:       text,
				HasBody:    present,
				Err:        err,
			}
		}
		return &StructuredError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       text,
			Payload:    failure,
		}
	}

	if success == nil {
		return nil
	}
	if err := e.decode(text, present, success); err != nil {
		return &TransportError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       text,
			HasBody:    present,
			Err:        err,
		}
	}
	return nil
}

// decode leaves v untouched when there is no payload
func (e *Executor) decode(text string, present bool, v any) error {
	if !present || strings.TrimSpace(text) == "" {
		return nil
	}
	if err := e.codec.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// readTimer cancels the request when a single body read blocks for longer
// than the timeout
type readTimer struct {
	timeout time.Duration
	timer   *time.Timer
	expired atomic.Bool
}

func newReadTimer(timeout time.Duration, cancel context.CancelFunc) *readTimer {
	t := &readTimer{timeout: timeout}
	t.timer = time.AfterFunc(timeout, func() {
		t.expired.Store(true)
		cancel()
	})
	t.timer.Stop()
	return t
}

func (t *readTimer) wrap(r io.Reader) io.Reader {
	return &timedReader{r: r, t: t}
}

func (t *readTimer) fired() bool {
	return t.expired.Load()
}

func (t *readTimer) stop() {
	t.timer.Stop()
}

type timedReader struct {
	r io.Reader
	t *readTimer
}

func (tr *timedReader) Read(p []byte) (int, error) {
	tr.t.timer.Reset(tr.t.timeout)
	n, err := tr.r.Read(p)
	tr.t.timer.Stop()
	return n, err
}
