package http

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redacted           = "redacted"
)

// registerLogging emits one structured entry per request. Bodies are captured
// by BodyDump, which runs inside the logger, and secrets are redacted.
func registerLogging(e *echo.Echo, log logging.Logger) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"user_id", requestUserID(c),
			}
			if body := c.Get(requestBodyLogKey); body != nil {
				args = append(args, "request_body", body)
			}
			if body := c.Get(responseBodyLogKey); body != nil {
				args = append(args, "response_body", body)
			}

			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
			}

			ctx := logging.WithRequestID(c.Request().Context(), v.RequestID)
			switch {
			case v.Status >= 500:
				log.Error(ctx, "http request", args...)
			case v.Status >= 400:
				log.Warn(ctx, "http request", args...)
			default:
				log.Info(ctx, "http request", args...)
			}
			return nil
		},
	}))

	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if summary := sanitizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

func requestUserID(c echo.Context) any {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return "anonymous"
}

// sanitizeBody turns a captured body into something safe to log: JSON and
// url-encoded forms are decoded with secrets redacted, HTML and binary
// payloads are summarised, and everything is size-capped.
func sanitizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case strings.HasPrefix(ct, echo.MIMEApplicationJSON) || (ct == "" && json.Valid(body)):
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return capJSON(redactJSON(data, ""))
		}
	case strings.HasPrefix(ct, echo.MIMEApplicationForm):
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			out := make(map[string]any, len(values))
			for key, vals := range values {
				if isSecretKey(key) {
					out[key] = redacted
					continue
				}
				if len(vals) == 1 {
					out[key] = clampString(vals[0])
					continue
				}
				items := make([]any, len(vals))
				for i, v := range vals {
					items[i] = clampString(v)
				}
				out[key] = items
			}
			return capJSON(out)
		}
	case strings.HasPrefix(ct, echo.MIMETextHTML):
		return "html"
	}

	if isBinary(body) {
		return "binary"
	}
	text := string(body)
	if lowered := strings.ToLower(text); strings.Contains(lowered, "password") || strings.Contains(lowered, "token") {
		return redacted
	}
	return clampString(text)
}

// isSecretKey matches password fields and token values. token_type is
// metadata and stays readable.
func isSecretKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.Contains(k, "password"):
		return true
	case k == "token_type":
		return false
	case k == "token", strings.HasSuffix(k, "_token"):
		return true
	}
	return false
}

func redactJSON(value any, key string) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if isSecretKey(k) {
				out[k] = redacted
				continue
			}
			out[k] = redactJSON(val, k)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactJSON(item, key)
		}
		return out
	case string:
		return clampString(v)
	default:
		return v
	}
}

// capJSON replaces oversized payloads with a marker; list responses can grow
// without bound.
func capJSON(value any) any {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	summary := map[string]any{"_truncated": true, "_bytes": len(buf)}
	if items, ok := value.([]any); ok {
		summary["_total_items"] = len(items)
	}
	return summary
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	cut := value[:maxLoggedBody]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut + "...(truncated)"
}
