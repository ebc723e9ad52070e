// Package inference provides the HTTP client for the video inference service.
//
// # Overview
//
// The service is an opaque HTTP endpoint. This package knows two routes:
//
//   - GET /health: advisory liveness check (Probe)
//   - POST /infer/video: multipart upload of one video (Prepare + Send, or Upload)
//
// # Client Usage
//
//	client, err := inference.NewClient("http://localhost:8000/", inference.Options{})
//	if err != nil {
//		return err
//	}
//	if !client.Probe(ctx) {
//		// warn and carry on
//	}
//	resp, err := client.Upload(ctx, "clip.mp4")
//
// Trailing slashes on the base URL are dropped, so "http://host/" and
// "http://host" both upload to http://host/infer/video. A bare host:port gets
// an http:// scheme.
//
// # Upload Body
//
// The body is multipart/form-data with exactly one part: field "file", the
// file's base name as filename, and a declared Content-Type of video/mp4
// whatever the extension. The part framing is rendered up front and the file
// bytes are streamed from disk between the two halves, which gives the request
// an exact Content-Length without buffering the video in memory.
//
// # Timeouts
//
// One http.Client serves both routes. Its timeout (5 minutes by default) bounds
// the whole upload. The probe additionally runs under a short context deadline
// (5 seconds by default) so an unresponsive service cannot stall the run.
//
// # Error Handling
//
//   - Probe never fails: refused connections, timeouts and non-2xx statuses all
//     yield false, and the reason is logged at warn level.
//   - Send returns *TransportError when the service cannot be reached or the
//     reply cannot be read. Timeout reports deadline expiry.
//   - A non-2xx reply is NOT an error. The status and body come back in
//     UploadResponse for the caller to present.
//
// # Request Headers
//
// Every request carries Accept: application/json, User-Agent: htclient/<Version>
// and a fresh X-Request-ID (UUID) that is also attached to the debug logs.
package inference
