package core

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

var (
	dataPrefix   = []byte("data: ")
	doneSentinel = []byte("[DONE]")
)

// StreamDecoder reassembles newline-delimited event-stream frames from an
// arbitrarily chunked byte sequence. It owns a single buffer holding the
// unconsumed tail; splitting happens on the byte '\n', so multi-byte UTF-8
// runes torn across chunk boundaries are reassembled before any decoding.
//
// The zero value is ready to use. A decoder serves one stream; it is not
// safe for concurrent use.
type StreamDecoder struct {
	buf []byte
}

// Feed appends p to the buffer and returns the payloads of all frames
// completed by it, in order. Each payload is trimmed, has any leading
// "data: " prefix stripped, and is detached from the internal buffer.
// Blank frames and the [DONE] sentinel are consumed and dropped. A trailing
// fragment with no newline stays buffered and is never returned.
func (d *StreamDecoder) Feed(p []byte) [][]byte {
	d.buf = append(d.buf, p...)

	var frames [][]byte
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			return frames
		}
		line := bytes.TrimSpace(d.buf[:i])
		d.buf = d.buf[i+1:]

		line = bytes.TrimPrefix(line, dataPrefix)
		if len(line) == 0 || bytes.Equal(line, doneSentinel) {
			continue
		}
		frame := make([]byte, len(line))
		copy(frame, line)
		frames = append(frames, frame)
	}
}

// ChatCompletionStream is a pull-style reader over a streaming chat
// completion response. Chunks arrive in the exact order their frames
// complete; the stream is forward-only and not restartable.
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
type ChatCompletionStream struct {
	body   io.ReadCloser
	logger *slog.Logger

	dec     StreamDecoder
	pending []*ChatCompletion
	chunk   []byte
	err     error
}

// NewChatCompletionStream wraps a streaming response body. A nil or empty
// body fails immediately with ErrStreaming: there is nothing to decode.
func NewChatCompletionStream(body io.ReadCloser, logger *slog.Logger) (*ChatCompletionStream, error) {
	if body == nil || body == http.NoBody {
		return nil, &APIError{Message: "response has no body", Err: ErrStreaming}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ChatCompletionStream{
		body:   body,
		logger: logger,
		chunk:  make([]byte, 4096),
	}, nil
}

// Recv returns the next chunk. It returns io.EOF when the source is
// exhausted (any unterminated trailing bytes are discarded) and an
// ErrStreaming-wrapped error when reading the source fails. Malformed
// frames are skipped, never fatal.
func (s *ChatCompletionStream) Recv() (*ChatCompletion, error) {
	for {
		if len(s.pending) > 0 {
			next := s.pending[0]
			s.pending = s.pending[1:]
			return next, nil
		}
		if s.err != nil {
			return nil, s.err
		}

		n, err := s.body.Read(s.chunk)
		if n > 0 {
			for _, frame := range s.dec.Feed(s.chunk[:n]) {
				if chunk, ok := s.decodeFrame(frame); ok {
					s.pending = append(s.pending, chunk)
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.err = io.EOF
			} else {
				s.err = &APIError{Message: "read stream: " + err.Error(), Err: ErrStreaming}
			}
		}
	}
}

// decodeFrame normalizes one frame payload. Frames that are not JSON
// objects, or that fail to parse, are dropped.
func (s *ChatCompletionStream) decodeFrame(frame []byte) (*ChatCompletion, bool) {
	if !isObject(frame) {
		return nil, false
	}
	chunk, err := Normalize(frame, true)
	if err != nil {
		// Frame content is never logged; it may carry model output.
		s.logger.Debug("skipping malformed stream frame", "bytes", len(frame))
		return nil, false
	}
	if len(chunk.Choices) == 0 {
		return nil, false
	}
	return chunk, true
}

// Close releases the underlying response. Abandoning a stream without
// draining it is safe; Close is all the cleanup there is.
func (s *ChatCompletionStream) Close() error {
	return s.body.Close()
}

// Collect drains the stream and assembles one complete ChatCompletion: the
// concatenated delta contents become the message content, tool calls are
// appended in arrival order, and the envelope and usage of the last chunk
// win. The stream is closed before Collect returns.
func (s *ChatCompletionStream) Collect() (*ChatCompletion, error) {
	defer s.Close()

	var (
		content   strings.Builder
		last      *ChatCompletion
		role      string
		finish    *string
		toolCalls []ToolCall
	)
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		last = chunk
		content.WriteString(chunk.DeltaText())
		choice := chunk.Choices[0]
		if choice.Delta != nil {
			if role == "" && choice.Delta.Role != "" {
				role = choice.Delta.Role
			}
			toolCalls = append(toolCalls, choice.Delta.ToolCalls...)
		}
		if choice.FinishReason != nil {
			finish = choice.FinishReason
		}
	}

	if last == nil {
		return synthesized("", false), nil
	}
	if role == "" {
		role = RoleAssistant
	}
	text := content.String()
	return &ChatCompletion{
		ID:      last.ID,
		Object:  ObjectChatCompletion,
		Created: last.Created,
		Model:   last.Model,
		Choices: []Choice{{
			Message:      &Message{Role: role, Content: &text, ToolCalls: toolCalls},
			FinishReason: finish,
		}},
		Usage: last.Usage,
	}, nil
}
