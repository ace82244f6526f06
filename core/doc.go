// Package core implements the transport kernel of the Cumulo SDK: request
// dispatch with retries, event-stream decoding, and response normalization.
//
// Most applications use the root cumulo package, which wraps this kernel in
// per-resource services. Reach for core directly when calling endpoints the
// SDK has no façade for, or when embedding the dispatcher in other tooling.
//
// # Dispatcher
//
// [Dispatcher] is the single path every request takes. It resolves URLs
// against the configured base, merges headers, bounds each attempt with a
// timeout, and retries transient failures with exponential backoff:
//
//	d, err := core.NewDispatcher(core.ClientConfig{
//	    APIKey: core.NewSecret(os.Getenv("CUMULO_API_KEY")),
//	})
//	if err != nil {
//	    return err
//	}
//	resp, err := d.Send(ctx, &core.RequestSpec{
//	    Method:   http.MethodGet,
//	    Endpoint: "/accelerators",
//	})
//
// Retry behavior, in brief: 401 and non-429 4xx never retry; 429 honors
// Retry-After (whole seconds) and otherwise backs off 2^attempt seconds;
// 502/503/504 and network failures back off 2^attempt seconds; everything
// transient is retried up to [ClientConfig.MaxRetries] times.
//
// # Errors
//
// Every failure is an [*APIError] wrapping one of the package sentinels, so
// callers classify with errors.Is and inspect with errors.As:
//
//	resp, err := client.Chat.Create(ctx, req)
//	if errors.Is(err, core.ErrRateLimited) {
//	    // slow down
//	}
//	var apiErr *core.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("status=%d request_id=%s", apiErr.Status, apiErr.RequestID)
//	}
//
// # Streaming
//
// [StreamDecoder] turns an arbitrarily chunked byte sequence into discrete
// frame payloads; [ChatCompletionStream] pulls chunks from a response body:
//
//	stream, err := client.Chat.CreateStream(ctx, req)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for {
//	    chunk, err := stream.Recv()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk.DeltaText())
//	}
//
// Use [ChatCompletionStream.Collect] to drain a stream into a single
// complete [ChatCompletion].
//
// # Normalization
//
// [Normalize] maps raw response payloads into the canonical
// [ChatCompletion] shape, substituting defaults for every missing field.
// Responses always carry at least one [Choice] after normalization, so
// callers never guard against empty choices.
//
// # Thread Safety
//
// [Dispatcher] and [ClientConfig] are immutable after construction and safe
// for concurrent use. [StreamDecoder], [ChatCompletionStream], and
// [RawResponse] each belong to a single call and a single goroutine.
package core
