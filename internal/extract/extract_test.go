package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_WrappedInProse(t *testing.T) {
	raw := `Here is the result: {"items":[{"title":"A"}]} Thanks!`

	payload, err := Payload(raw)
	require.Nil(t, err)

	items := Items(payload, "items")
	require.Len(t, items, 1)
	obj, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A", obj["title"])
}

func TestPayload_CodeFence(t *testing.T) {
	raw := "```json\n{\"sreDynamics\":[]}\n```"

	payload, err := Payload(raw)
	require.Nil(t, err)
	assert.Contains(t, payload, "sreDynamics")
}

func TestPayload_NoJSON(t *testing.T) {
	cases := []string{
		"",
		"没有任何结构化内容",
		"only an opening { here",
		"only a closing } here",
		"}{",
	}
	for _, raw := range cases {
		payload, err := Payload(raw)
		require.NotNil(t, err, "raw=%q", raw)
		assert.Equal(t, ReasonNoJSON, err.Reason)
		assert.Equal(t, raw, err.Raw)
		assert.Nil(t, payload)
	}
}

func TestPayload_Malformed(t *testing.T) {
	raw := `前导说明 {this is not json} 尾随说明`

	payload, err := Payload(raw)
	require.NotNil(t, err)
	assert.Equal(t, ReasonMalformed, err.Reason)
	// 原文必须完整保留，事后排查只能依赖它
	assert.Equal(t, raw, err.Raw)
	assert.Error(t, err.Unwrap())
	assert.Nil(t, payload)
}

func TestPayload_TopLevelNotObject(t *testing.T) {
	// 切片取到的是数组里的对象片段，整体不是合法 JSON 时按 malformed 处理
	raw := `{"a":1} and {"b":2}`

	payload, err := Payload(raw)
	require.NotNil(t, err)
	assert.Equal(t, ReasonMalformed, err.Reason)
	assert.Nil(t, payload)
}

func TestItems(t *testing.T) {
	payload := map[string]any{
		"list":   []any{map[string]any{"title": "A"}},
		"scalar": "not a list",
	}

	assert.Len(t, Items(payload, "list"), 1)
	assert.Nil(t, Items(payload, "scalar"))
	assert.Nil(t, Items(payload, "missing"))
}
