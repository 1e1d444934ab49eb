package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

var errBodyNotObject = errors.New("request body must be a JSON object")

// jsonBody returns the request body as a JSON object. The decoded map is cached on the context
// so later middleware and handlers observe the same (possibly rewritten) value.
func jsonBody(c *gin.Context) (map[string]any, error) {
	if v, ok := c.Get(CtxBodyKey); ok {
		if body, ok := v.(map[string]any); ok {
			return body, nil
		}
	}

	body := map[string]any{}
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			decoder := json.NewDecoder(bytes.NewReader(raw))
			decoder.UseNumber()
			var decoded any
			if err := decoder.Decode(&decoded); err != nil {
				return nil, err
			}
			obj, ok := decoded.(map[string]any)
			if !ok {
				return nil, errBodyNotObject
			}
			body = obj
		}
	}

	if err := replaceBody(c, body); err != nil {
		return nil, err
	}
	return body, nil
}

// replaceBody caches body and swaps the request body for its JSON encoding.
func replaceBody(c *gin.Context, body map[string]any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	c.Set(CtxBodyKey, body)
	c.Request.Body = io.NopCloser(bytes.NewReader(encoded))
	c.Request.ContentLength = int64(len(encoded))
	return nil
}
