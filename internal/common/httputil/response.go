package httputil

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// WriteJSON marshals v and writes it as an application/json response.
// On a marshal error nothing is written and the caller picks the fallback.
func WriteJSON(ctx *fasthttp.RequestCtx, statusCode int, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
	return nil
}

// WriteJSONError writes a minimal error body without going through the
// marshaler; used as the fallback when WriteJSON itself fails.
func WriteJSONError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"success":false,"error":"` + message + `"}`)
}
