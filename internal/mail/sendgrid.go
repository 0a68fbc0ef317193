// Package mail 邮件通知侧的客户端：通过 SendGrid API 发送 HTML 邮件。
// 发送失败只记录日志，周报流程的正确性不依赖每封邮件送达。
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/iWorld-y/sre_weekly/internal/config"
	"github.com/iWorld-y/sre_weekly/internal/logger"
)

const defaultBaseURL = "https://api.sendgrid.com/v3"

// Client SendGrid 邮件客户端
type Client struct {
	apiKey     string
	from       string
	recipients []string
	baseURL    string
	client     *http.Client
}

// NewClient 创建邮件客户端
func NewClient(cfg config.MailConfig) *Client {
	return &Client{
		apiKey:     cfg.SendGridAPIKey,
		from:       cfg.From,
		recipients: cfg.Recipients,
		baseURL:    defaultBaseURL,
		client:     http.DefaultClient,
	}
}

// sendRequest SendGrid v3 mail/send 请求体
type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []contentPart     `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type contentPart struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send 向全部收件人逐一发送 HTML 邮件。
// 配置缺失（Key、From、To 任一为空）时记录日志并跳过。
func (c *Client) Send(subject, htmlBody string) {
	if c.apiKey == "" || c.from == "" || len(c.recipients) == 0 {
		logger.Log.Warn("邮件配置缺失 (Key/From/To)，跳过邮件发送")
		return
	}

	for _, to := range c.recipients {
		if err := c.sendOne(to, subject, htmlBody); err != nil {
			logger.Log.Errorf("邮件发送失败 [%s]: %v", to, err)
			continue
		}
		logger.Log.Infof("邮件发送成功: %s", to)
	}
}

// Alert 告警回调：把纯文本包装成 HTML 后发送
func (c *Client) Alert(subject, body string) {
	c.Send(subject, "<pre>"+html.EscapeString(body)+"</pre>")
}

func (c *Client) sendOne(to, subject, htmlBody string) error {
	payload, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{To: []address{{Email: to}}}},
		From:             address{Email: c.from},
		Subject:          subject,
		Content:          []contentPart{{Type: "text/html", Value: htmlBody}},
	})
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.baseURL+"/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("sendgrid api error (status %d): %s", res.StatusCode, body)
	}

	return nil
}
