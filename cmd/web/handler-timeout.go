package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<!DOCTYPE html>
<html lang="en">
<head><title>Timeout - Reelcheck</title></head>
<body>
<h1>Timeout</h1>
<p>The page took too long to load.</p>
<p><a href="/dashboard">Retry</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
//
// It is not used for the authenticity check since the verdict collaborator may take minutes.
func timeoutHandler(h http.Handler, timeout time.Duration) http.Handler {
	// Leave the timeout handler a chance to respond before the server closes the connection.
	httpHandlerTimeout := timeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
