package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/specfetch/internal/catalog"
	"github.com/brizzai/specfetch/internal/config"
	"github.com/brizzai/specfetch/internal/cookies"
	"github.com/brizzai/specfetch/internal/requester"
)

func newCallCmd() *cobra.Command {
	var (
		data       string
		pathParams []string
		jq         string
	)

	cmd := &cobra.Command{
		Use:   "call <route>",
		Short: "Call a route declared in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, store, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer cookies.Close(store)

			payload, err := readPayload(data)
			if err != nil {
				return err
			}
			params, err := parsePairs(pathParams)
			if err != nil {
				return err
			}

			res, err := client.Call(cmd.Context(), args[0], payload, requester.WithPathParams(params))
			if err != nil {
				return err
			}
			if err := printResult(res, jq); err != nil {
				return err
			}
			if !res.IsOk() {
				_ = cookies.Close(store)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "Request payload as JSON, or @file to read it from a file")
	cmd.Flags().StringArrayVarP(&pathParams, "path", "p", nil, "Path parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&jq, "jq", "", "jq expression applied to a JSON response body")
	return cmd
}

// newClient wires a client the same way `serve` does, without fx.
// The caller closes the returned store.
func newClient(cfg *config.Config) (*requester.Client, cookies.Reader, error) {
	c, err := catalog.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := cookies.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := requester.NewClientFromConfig(requester.ClientParams{
		API:       c.API,
		Config:    cfg,
		Cookies:   store,
		Transport: requester.NewTransportForCookies(store),
		Metrics:   requester.NewMetrics(cfg),
	})
	if err != nil {
		_ = cookies.Close(store)
		return nil, nil, err
	}
	return client, store, nil
}

// readData returns a --data value, reading @file references.
func readData(data string) ([]byte, error) {
	if !strings.HasPrefix(data, "@") {
		return []byte(data), nil
	}
	b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload file: %w", err)
	}
	return b, nil
}

// readPayload decodes a --data value. Text that is not JSON is sent as a
// plain string.
func readPayload(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	raw, err := readData(data)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return string(raw), nil
	}
	return payload, nil
}

// parsePairs turns name=value arguments into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		out[name] = value
	}
	return out, nil
}

func printResult(res *requester.RequestResult, jq string) error {
	status := "no response"
	if res.Response != nil {
		status = fmt.Sprintf("%d %s", res.Response.StatusCode, res.Response.StatusText())
	}

	if res.IsOk() {
		pterm.Success.Println(status)
	} else {
		pterm.Error.Printfln("%s: %s", status, res.Message)
	}
	if res.Response == nil {
		return nil
	}

	if jq == "" {
		body, _ := res.Text()
		if body != "" {
			fmt.Println(body)
		}
		return nil
	}

	values, err := res.Query(jq)
	if err != nil {
		return err
	}
	for _, v := range values {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}
	return nil
}
