package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalKeepsHTMLAndTrimsNewline(t *testing.T) {
	b, err := JSON.Marshal(map[string]string{"challenge": "<a&b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"challenge":"<a&b>"}`, string(b))
}

func TestUnmarshal(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, JSON.Unmarshal([]byte(`{"a":1,"extra":true}`), &v))
	assert.Equal(t, 1, v.A)

	assert.Error(t, JSON.Unmarshal([]byte(`{"a":1} {"a":2}`), &v))
	assert.Error(t, JSON.Unmarshal([]byte(`{"a":"x"}`), &v))
	assert.Error(t, JSON.Unmarshal(nil, &v))
	assert.Equal(t, "application/json", JSON.ContentType())
}
