package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomlabs/loom/cli/keystore"
	"github.com/loomlabs/loom/client"
	"github.com/loomlabs/loom/core"
)

// keystoreKeyName is the entry the CLI reads its API key from.
const keystoreKeyName = "loom"

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitEndpoint   = 2
	ExitNetwork    = 3
)

var (
	prompt          string
	system          string
	temperature     float64
	topP            float64
	maxOutputTokens int
	stream          bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send a chat request",
	Long: `Send a chat request to the inference endpoint.

Examples:
  loom chat --model loom-1-pro --prompt "Hello"
  loom chat --prompt "Hello" --stream
  loom chat --prompt "Hello" --json`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&prompt, "prompt", "", "User message (required)")
	chatCmd.Flags().StringVar(&system, "system", "", "System message")
	chatCmd.Flags().Float64Var(&temperature, "temperature", -1, "Temperature (-1 = use default)")
	chatCmd.Flags().Float64Var(&topP, "top-p", -1, "Top-p (-1 = use default)")
	chatCmd.Flags().IntVar(&maxOutputTokens, "max-output-tokens", 0, "Max output tokens (0 = use default)")
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

	var opts []client.Option
	if GetBaseURL() != "" {
		opts = append(opts, client.WithBaseURL(GetBaseURL()))
	}
	c := client.New(apiKey, opts...)

	params, err := collectParams()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	builder := core.NewRequest(modelID)
	if system != "" {
		builder = builder.System(system)
	}
	builder = builder.User(prompt).Params(params...)

	req, err := builder.Build()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	ctx := context.Background()

	if stream {
		return runStreamingChat(ctx, c, req)
	}
	return runBlockingChat(ctx, c, req)
}

// resolveAPIKey reads the key from the keystore, falling back to the
// LOOM_API_KEY environment variable.
func resolveAPIKey() (string, error) {
	ks, err := keystore.NewKeystore()
	if err != nil {
		return "", fmt.Errorf("failed to open keystore: %w", err)
	}

	apiKey, err := ks.Get(keystoreKeyName)
	if err == nil {
		return apiKey, nil
	}
	if _, ok := err.(*keystore.ErrKeyNotFound); !ok {
		return "", fmt.Errorf("failed to get API key: %w", err)
	}

	if env := os.Getenv(client.DefaultAPIKeyEnvVar); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no API key: run 'loom keys set' or set %s", client.DefaultAPIKeyEnvVar)
}

func collectParams() ([]core.Param, error) {
	var params []core.Param

	if temperature >= 0 {
		p, err := core.Temperature(temperature)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if topP >= 0 {
		p, err := core.TopP(topP)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if maxOutputTokens > 0 {
		p, err := core.MaxOutputTokens(maxOutputTokens)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func runBlockingChat(ctx context.Context, c *client.Client, req *core.Request) error {
	resp, err := c.Respond(ctx, req)
	if err != nil {
		return handleChatError(err)
	}

	if IsJSONOutput() {
		return outputJSON(resp)
	}

	// Text output
	fmt.Printf("> %s\n", prompt)
	fmt.Println(resp.Output())
	printUsage(resp)
	return nil
}

func runStreamingChat(ctx context.Context, c *client.Client, req *core.Request) error {
	s, err := c.Stream(ctx, req)
	if err != nil {
		return handleChatError(err)
	}
	defer s.Close()

	if IsJSONOutput() {
		// Accumulate for JSON output
		resp, err := core.CollectStream(s)
		if err != nil {
			return handleChatError(err)
		}
		return outputJSON(resp)
	}

	// Stream text output
	fmt.Printf("> %s\n", prompt)

	var finalResp *core.Response
	for {
		ev, err := s.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Println()
			return handleChatError(err)
		}
		switch ev.Kind {
		case core.EventOutputItemDelta:
			fmt.Print(ev.Delta)
		case core.EventCompleted:
			finalResp = ev.Response
		}
	}

	// Final newline after the streamed text
	fmt.Println()

	printUsage(finalResp)
	return nil
}

func printUsage(resp *core.Response) {
	if !IsVerbose() || resp == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Usage: %d prompt + %d completion = %d total tokens\n",
		resp.Usage.PromptTokens,
		resp.Usage.CompletionTokens,
		resp.Usage.TotalTokens)
}

func handleChatError(err error) error {
	var apiErr *core.Error
	if errors.As(err, &apiErr) {
		if IsJSONOutput() {
			outputErrorJSON(apiErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", apiErr.Detail)
			if apiErr.RequestID != "" {
				fmt.Fprintf(os.Stderr, "  Request ID: %s\n", apiErr.RequestID)
			}
		}

		// Determine exit code based on error type
		switch {
		case errors.Is(err, core.ErrNetwork), errors.Is(err, core.ErrTimeout):
			return exitWithCode(ExitNetwork, err)
		case errors.Is(err, core.ErrInvalidValue):
			return exitWithCode(ExitValidation, err)
		default:
			return exitWithCode(ExitEndpoint, err)
		}
	}

	// Validation errors
	if errors.Is(err, core.ErrInvalidValue) {
		if IsJSONOutput() {
			outputSimpleErrorJSON("validation_error", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return exitWithCode(ExitValidation, err)
	}

	// Network errors
	if errors.Is(err, core.ErrNetwork) || errors.Is(err, core.ErrTimeout) {
		if IsJSONOutput() {
			outputSimpleErrorJSON("network_error", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: network error: %v\n", err)
		}
		return exitWithCode(ExitNetwork, err)
	}

	// Generic error
	if IsJSONOutput() {
		outputSimpleErrorJSON("error", err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitEndpoint, err)
}

func outputJSON(resp *core.Response) error {
	output := map[string]interface{}{
		"id":     resp.ID,
		"output": resp.Output(),
		"usage": map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputErrorJSON(apiErr *core.Error) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"message":    apiErr.Detail,
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
