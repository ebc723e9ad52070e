// Package app provides the orchestration layer for the video upload client.
//
// # Overview
//
// This package wires together configuration, input resolution, the inference
// client and the result renderer. It is the composition root shared by the two
// entry points:
//
//   - RunInteractive (htclient): path from the first argument or a prompt,
//     advisory health probe, upload, render
//   - RunDirect (htupload): server URL and path both required as arguments,
//     no prompt, no probe, upload, render
//
// # Data Flow
//
//	┌──────────────────┐
//	│ RunInteractive() │
//	└────────┬─────────┘
//	         ├─────> config.Load()          Defaults or explicit --config
//	         ├─────> inference.NewClient()  Normalized base URL, timeouts
//	         ├─────> input.Resolve()        Argument or prompt, must be a file
//	         ├─────> client.Probe()         Advisory only
//	         ├─────> client.Send()          Streamed multipart upload
//	         └─────> render.Render()        Pretty JSON + key metrics
//
// Every run is single-shot and strictly linear. Nothing is retried.
//
// # Error Handling
//
// Every failure ends the run and is reported on the output writer before Run
// returns. ExitCode maps the returned error to a process exit code:
//
//   - input.ErrInvalidInput: usage printed, no network call made (2)
//   - *inference.TransportError: connection hint printed (3)
//   - *UpstreamError: status and error body printed (4)
//   - ErrMalformedResponse: parse error and raw body printed (5)
//   - anything else, e.g. a bad config file (1); not yet reported
//
// A failed health probe is never an error. It prints a warning and the upload
// goes ahead.
//
// # Output Streams
//
// Results and status lines go to Options.Out through console.Printer.
// Diagnostics go to Options.Err through a zap logger that stays at warn level
// unless Options.Verbose is set.
package app
