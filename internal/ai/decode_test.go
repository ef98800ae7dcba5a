package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" validate:"required"`
	Items []string `json:"items" validate:"required,min=1,dive,required"`
	Score *float64 `json:"score" validate:"required,gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		var s sample
		require.NoError(t, DecodeJSON(`{"name":"a","items":["x"],"score":1.5}`, &s))
		assert.Equal(t, "a", s.Name)
		assert.InDelta(t, 1.5, *s.Score, 1e-9)
	})

	t.Run("fenced", func(t *testing.T) {
		var s sample
		content := "```json\n{\"name\":\"a\",\"items\":[\"x\"],\"score\":0}\n```"
		require.NoError(t, DecodeJSON(content, &s))
		assert.Equal(t, []string{"x"}, s.Items)
	})

	failures := map[string]string{
		"empty":           "   ",
		"prose":           "Sure! Here is your plan.",
		"missing field":   `{"name":"a","items":["x"]}`,
		"negative":        `{"name":"a","items":["x"],"score":-1}`,
		"empty list":      `{"name":"a","items":[],"score":1}`,
		"wrong type":      `{"name":"a","items":"x","score":1}`,
		"trailing data":   `{"name":"a","items":["x"],"score":1} {"again":true}`,
		"bare fence":      "```",
		"blank list item": `{"name":"a","items":[""],"score":1}`,
	}
	for name, content := range failures {
		t.Run(name, func(t *testing.T) {
			var s sample
			err := DecodeJSON(content, &s)
			require.Error(t, err)
			assert.Equal(t, KindParse, KindOf(err))
		})
	}
}

func TestStubGateway(t *testing.T) {
	empty := NewStubGateway()
	_, err := empty.Complete(t.Context(), Request{User: "x"})
	assert.Equal(t, KindUnconfigured, KindOf(err))

	stub := NewStubGateway(StubResponse{Content: "one"}, StubResponse{Content: "two"})
	first, _ := stub.Complete(t.Context(), Request{User: "a"})
	second, _ := stub.Complete(t.Context(), Request{User: "b"})
	third, _ := stub.Complete(t.Context(), Request{User: "c"})

	assert.Equal(t, "one", first)
	assert.Equal(t, "two", second)
	assert.Equal(t, "two", third)
	assert.Len(t, stub.Calls(), 3)
}
