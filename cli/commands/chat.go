package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	cumulo "github.com/cumulo-ai/cumulo-go"
	"github.com/cumulo-ai/cumulo-go/cli/keystore"
	"github.com/cumulo-ai/cumulo-go/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

var (
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send a chat completion request",
	Long: `Send a chat completion request to a Cumulo model.

Examples:
  cumulo chat --model cumulo-large-1 --prompt "Hello"
  cumulo chat --prompt "Hello" --stream
  cumulo chat --prompt "Hello" --json`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&prompt, "prompt", "", "User message (required)")
	chatCmd.Flags().StringVar(&system, "system", "", "System message")
	chatCmd.Flags().Float64Var(&temperature, "temperature", 0, "Temperature (0 = use default)")
	chatCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Max tokens (0 = use default)")
	chatCmd.Flags().BoolVar(&stream, "stream", false, "Enable streaming output")

	_ = chatCmd.MarkFlagRequired("prompt")
}

func runChat(cmd *cobra.Command, args []string) error {
	modelID := GetModel()
	if modelID == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("model required: use --model flag or set default_model in config"))
	}

	apiKey, err := resolveAPIKey()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	client, err := newSDKClient(apiKey)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	req := buildChatRequest(modelID)
	ctx := context.Background()

	if stream {
		return runStreamingChat(ctx, client, req)
	}
	return runNonStreamingChat(ctx, client, req)
}

// resolveAPIKey finds the API key: the CUMULO_API_KEY environment variable
// wins, then the "default" keystore profile.
func resolveAPIKey() (string, error) {
	if key := os.Getenv("CUMULO_API_KEY"); key != "" {
		return key, nil
	}

	ks, err := keystore.NewKeystore()
	if err != nil {
		return "", fmt.Errorf("failed to open keystore: %w", err)
	}

	apiKey, err := ks.Get("default")
	if err != nil {
		if _, ok := err.(*keystore.ErrKeyNotFound); ok {
			return "", fmt.Errorf("no API key found: set CUMULO_API_KEY or run 'cumulo keys set default'")
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return apiKey, nil
}

// newSDKClient builds a client from the loaded config and global flags.
func newSDKClient(apiKey string) (*cumulo.Client, error) {
	var opts []cumulo.Option

	if c := GetConfig(); c != nil {
		if c.BaseURL != "" {
			opts = append(opts, cumulo.WithBaseURL(c.BaseURL))
		}
		if c.TimeoutSeconds > 0 {
			opts = append(opts, cumulo.WithTimeout(time.Duration(c.TimeoutSeconds)*time.Second))
		}
		if c.MaxRetries != nil {
			opts = append(opts, cumulo.WithMaxRetries(*c.MaxRetries))
		}
	}

	if IsVerbose() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, cumulo.WithLogger(logger))
	}

	return cumulo.NewClient(apiKey, opts...)
}

func buildChatRequest(modelID string) *cumulo.ChatRequest {
	var messages []cumulo.ChatMessage
	if system != "" {
		messages = append(messages, cumulo.ChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, cumulo.ChatMessage{Role: "user", Content: prompt})

	req := &cumulo.ChatRequest{
		Model:    modelID,
		Messages: messages,
	}

	if temperature > 0 {
		req.Temperature = &temperature
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}

	return req
}

func runNonStreamingChat(ctx context.Context, client *cumulo.Client, req *cumulo.ChatRequest) error {
	resp, err := client.Chat.Create(ctx, req)
	if err != nil {
		return handleChatError(err)
	}

	if IsJSONOutput() {
		return outputJSON(resp)
	}

	// Text output
	fmt.Printf("> %s\n", prompt)
	fmt.Println(resp.Text())
	return nil
}

func runStreamingChat(ctx context.Context, client *cumulo.Client, req *cumulo.ChatRequest) error {
	chatStream, err := client.Chat.CreateStream(ctx, req)
	if err != nil {
		return handleChatError(err)
	}
	defer chatStream.Close()

	if IsJSONOutput() {
		// Accumulate for JSON output
		resp, err := chatStream.Collect()
		if err != nil {
			return handleChatError(err)
		}
		return outputJSON(resp)
	}

	// Stream text output
	fmt.Printf("> %s\n", prompt)

	var usage *core.Usage
	for {
		chunk, err := chatStream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Println()
			return handleChatError(err)
		}
		fmt.Print(chunk.DeltaText())
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}

	// Print final newline
	fmt.Println()

	if IsVerbose() && usage != nil {
		fmt.Fprintf(os.Stderr, "Usage: %d prompt + %d completion = %d total tokens\n",
			usage.PromptTokens,
			usage.CompletionTokens,
			usage.TotalTokens)
	}

	return nil
}

func handleChatError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		if IsJSONOutput() {
			outputErrorJSON(apiErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Fprintf(os.Stderr, "  Request ID: %s\n", apiErr.RequestID)
			}
		}

		// Determine exit code based on error type
		switch {
		case errors.Is(err, core.ErrConnection):
			return exitWithCode(ExitNetwork, err)
		default:
			return exitWithCode(ExitAPI, err)
		}
	}

	// Client construction / validation errors
	if errors.Is(err, core.ErrAPIKeyRequired) || errors.Is(err, core.ErrInvalidBaseURL) {
		if IsJSONOutput() {
			outputSimpleErrorJSON("validation_error", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return exitWithCode(ExitValidation, err)
	}

	// Generic error
	if IsJSONOutput() {
		outputSimpleErrorJSON("error", err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitAPI, err)
}

// apiErrorType maps an API error to a stable machine-readable type string.
func apiErrorType(apiErr *core.APIError) string {
	switch {
	case errors.Is(apiErr, core.ErrAuthentication):
		return "authentication_error"
	case errors.Is(apiErr, core.ErrRateLimited):
		return "rate_limited"
	case errors.Is(apiErr, core.ErrBadRequest):
		return "bad_request"
	case errors.Is(apiErr, core.ErrServer):
		return "server_error"
	case errors.Is(apiErr, core.ErrConnection):
		return "connection_error"
	case errors.Is(apiErr, core.ErrStreaming):
		return "streaming_error"
	case errors.Is(apiErr, core.ErrInvalidResponse):
		return "invalid_response"
	default:
		return "transport_error"
	}
}

func outputJSON(resp *core.ChatCompletion) error {
	var usage core.Usage
	if resp.Usage != nil {
		usage = *resp.Usage
	}

	output := map[string]interface{}{
		"id":     resp.ID,
		"model":  resp.Model,
		"output": resp.Text(),
		"usage": map[string]int{
			"prompt_tokens":     usage.PromptTokens,
			"completion_tokens": usage.CompletionTokens,
			"total_tokens":      usage.TotalTokens,
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputErrorJSON(apiErr *core.APIError) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"type":       apiErrorType(apiErr),
			"message":    apiErr.Message,
			"status":     apiErr.Status,
			"request_id": apiErr.RequestID,
		},
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func outputSimpleErrorJSON(errType, message string) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"type":    errType,
			"message": message,
		},
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
