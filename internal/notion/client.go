// Package notion 记录存储侧的客户端：把归一化记录按字段 Schema
// 映射为 Notion 页面属性并写入对应数据库。
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iWorld-y/sre_weekly/internal/model"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// Client Notion API 客户端
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Notion 客户端
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
}

// createPageRequest Notion pages.create 请求体
type createPageRequest struct {
	Parent     parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage 在指定数据库创建一条记录。
// 属性键名必须与数据库的英文列名严格一致，否则 Notion 会整条拒绝。
func (c *Client) CreatePage(ctx context.Context, databaseID string, fields []model.Field, rec model.Record) error {
	if databaseID == "" {
		return fmt.Errorf("notion database id is missing")
	}

	payload, err := json.Marshal(createPageRequest{
		Parent:     parent{DatabaseID: databaseID},
		Properties: buildProperties(fields, rec),
	})
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("notion api error (status %d): %s", res.StatusCode, body)
	}

	return nil
}

// buildProperties 按字段类型组装 Notion 属性
func buildProperties(fields []model.Field, rec model.Record) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		v := rec[f.Name]
		switch f.Kind {
		case model.KindTitle:
			props[f.Name] = map[string]any{
				"title": []any{map[string]any{"text": map[string]any{"content": v}}},
			}
		case model.KindDate:
			props[f.Name] = map[string]any{
				"date": map[string]any{"start": v},
			}
		case model.KindURL:
			// 无效链接必须写 null，空字符串会被 Notion 拒绝
			var link any
			if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
				link = v
			}
			props[f.Name] = map[string]any{"url": link}
		default:
			props[f.Name] = map[string]any{
				"rich_text": []any{map[string]any{"text": map[string]any{"content": v}}},
			}
		}
	}
	return props
}
