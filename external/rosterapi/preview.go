package rosterapi

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

func buildCurlPreview(method, fullURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X ")
	_, _ = buf.WriteString(method)
	_, _ = buf.WriteString(" ")
	_, _ = buf.WriteString(shellQuote(fullURL))
	_, _ = buf.WriteString(" -H 'Authorization: Bearer REDACTED' -H 'Content-Type: application/json'")
	if body != "" {
		_, _ = buf.WriteString(" --data ")
		_, _ = buf.WriteString(shellQuote(body))
	}
	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func truncateForLog(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}
