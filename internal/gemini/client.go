// Package gemini 封装对 Gemini generateContent 端点的调用：
// 启用 Google Search Grounding、单次请求超时、指数退避重试，
// 并区分瞬时错误与致命错误。
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/sre_weekly/internal/config"
	"github.com/iWorld-y/sre_weekly/internal/logger"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrContentMissing 响应信封缺少 candidates/parts/text。
// 这是响应结构问题而非服务端抖动，不重试。
var ErrContentMissing = errors.New("gemini response is missing text content")

// AlertFunc 告警回调，重试耗尽或内容错误时调用
type AlertFunc func(subject, body string)

// Client Gemini API 客户端
type Client struct {
	apiKey         string
	model          string
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	maxAttempts    int
	initialBackoff time.Duration
	sleep          func(time.Duration) // 测试中替换以避免真实等待
	alert          AlertFunc
}

// NewClient 创建 Gemini 客户端。alert 可为 nil。
func NewClient(cfg config.GeminiConfig, limiter *rate.Limiter, alert AlertFunc) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		baseURL:        baseURL,
		client:         &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second},
		limiter:        limiter,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: time.Duration(cfg.InitialBackoffSeconds) * time.Second,
		sleep:          time.Sleep,
		alert:          alert,
	}
}

// 请求与响应信封，字段与 generateContent REST 协议一致

type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// transientError 标记可重试的失败（网络错误、超时、5xx、429）
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Generate 发起一次逻辑请求：逐次尝试，瞬时错误按 B*2^(n-1) 退避重试，
// 致命错误立即返回。成功时保证返回非空文本。
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		logger.Log.Infof("Gemini API 调用 (第 %d/%d 次)...", attempt, c.maxAttempts)
		text, err := c.doGenerate(ctx, url, payload)
		if err == nil {
			logger.Log.Infof("Gemini 响应成功，原文长度: %d", len(text))
			return text, nil
		}

		var te *transientError
		if !errors.As(err, &te) {
			// 致命错误不重试；内容错误单独告警，便于区分响应结构问题
			if errors.Is(err, ErrContentMissing) {
				c.alertf("SRE/AI 报告生成失败 (AI内容错误)", "AI 分析失败（响应内容缺失）: %v", err)
			}
			return "", err
		}

		lastErr = err
		if attempt < c.maxAttempts {
			wait := c.initialBackoff * time.Duration(1<<(attempt-1))
			logger.Log.Warnf("Gemini API 调用失败（瞬时错误: %v），%v 后重试...", err, wait)
			c.sleep(wait)
		}
	}

	logger.Log.Errorf("Gemini API 调用在 %d 次尝试后仍然失败: %v", c.maxAttempts, lastErr)
	c.alertf("SRE/AI 报告生成失败 (API 错误)", "AI 分析失败（重试耗尽）: %v", lastErr)
	return "", fmt.Errorf("gemini api failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// doGenerate 单次请求：完成状态码分类与信封提取
func (c *Client) doGenerate(ctx context.Context, url string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		// 连接失败或超时，按瞬时错误处理
		return "", &transientError{err: fmt.Errorf("request failed: %w", err)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &transientError{err: fmt.Errorf("read body failed: %w", err)}
	}

	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		return "", &transientError{err: fmt.Errorf("gemini api transient error (status %d): %s", res.StatusCode, body)}
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error (status %d): %s", res.StatusCode, body)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidate or text part", ErrContentMissing)
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: empty text part", ErrContentMissing)
	}

	return text, nil
}

func (c *Client) alertf(subject, format string, args ...any) {
	if c.alert == nil {
		return
	}
	c.alert(subject, fmt.Sprintf(format, args...))
}
