package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/sre_weekly/internal/model"
)

var testFields = []model.Field{
	{Name: "title", Label: "标题", Kind: model.KindTitle},
	{Name: "summary", Label: "摘要", Kind: model.KindText},
	{Name: "link", Label: "链接", Kind: model.KindURL},
	{Name: "date", Label: "日期", Kind: model.KindDate},
}

// newTestClient 创建指向测试服务器的客户端
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-token")
	c.baseURL = srv.URL
	return c
}

func TestCreatePage_RequestShape(t *testing.T) {
	var gotReq *http.Request
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	})

	rec := model.Record{
		"title":   "新模型发布",
		"summary": "摘要文本",
		"link":    "https://example.com/a",
		"date":    "2025-08-26",
	}
	require.NoError(t, c.CreatePage(context.Background(), "db-123", testFields, rec))

	assert.Equal(t, "/pages", gotReq.URL.Path)
	assert.Equal(t, "Bearer test-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "2022-06-28", gotReq.Header.Get("Notion-Version"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))

	parent := gotBody["parent"].(map[string]any)
	assert.Equal(t, "db-123", parent["database_id"])

	props := gotBody["properties"].(map[string]any)

	title := props["title"].(map[string]any)["title"].([]any)
	text := title[0].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, "新模型发布", text["content"])

	richText := props["summary"].(map[string]any)["rich_text"].([]any)
	text = richText[0].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, "摘要文本", text["content"])

	assert.Equal(t, "https://example.com/a", props["link"].(map[string]any)["url"])

	date := props["date"].(map[string]any)["date"].(map[string]any)
	assert.Equal(t, "2025-08-26", date["start"])
}

func TestCreatePage_InvalidLinkBecomesNull(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	})

	rec := model.Record{"title": "T", "summary": "S", "link": "N/A", "date": "2025-08-26"}
	require.NoError(t, c.CreatePage(context.Background(), "db-123", testFields, rec))

	// 占位值不能作为 url 字符串写入，必须是 null
	props := gotBody["properties"].(map[string]any)
	assert.Nil(t, props["link"].(map[string]any)["url"])
}

func TestCreatePage_MissingDatabaseID(t *testing.T) {
	c := NewClient("test-token")
	err := c.CreatePage(context.Background(), "", testFields, model.Record{})
	require.Error(t, err)
}

func TestCreatePage_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"validation_error"}`))
	})

	err := c.CreatePage(context.Background(), "db-123", testFields, model.Record{"title": "T"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "validation_error")
}
