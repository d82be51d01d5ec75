package handler

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/imposter-project/imposter-gateway/internal/exchange"
)

// notFoundResponse generates a 404 page for a path with no content
func notFoundResponse(method, path string) *exchange.Response {
	var sb strings.Builder
	sb.WriteString(`<html>
<head><title>Not found</title></head>
<body>
<h3>Resource not found</h3>
<p>
No resource exists for: <pre>`)
	sb.WriteString(html.EscapeString(fmt.Sprintf("%s %s", method, path)))
	sb.WriteString(`</pre></p>
<hr/>
<p><em>Gateway</em></p>
</body>
</html>`)

	rsp := exchange.NewResponse(http.StatusNotFound, []byte(sb.String()))
	rsp.Header().Set("Content-Type", "text/html")
	return rsp
}
