package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestWriteJSON(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	err := WriteJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	require.NoError(t, err)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}

func TestWriteJSONMarshalFailureWritesNothing(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	err := WriteJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"bad": func() {}})
	require.Error(t, err)
	assert.Empty(t, ctx.Response.Body())
}

func TestWriteJSONError(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	WriteJSONError(ctx, fasthttp.StatusInternalServerError, "Failed to marshal response")

	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"success":false`)
}
