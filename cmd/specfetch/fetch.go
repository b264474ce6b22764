package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/requester"
)

func newFetchCmd() *cobra.Command {
	var (
		method  string
		headers []string
		data    string
		jq      string
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Call a URL outside the catalog using the default response handling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if data != "" {
				raw, err := readData(data)
				if err != nil {
					return err
				}
				body = raw
			}
			header, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			client, err := requester.NewClient(&apidef.API{})
			if err != nil {
				return err
			}
			res, err := client.ExternalCall(cmd.Context(), args[0], &requester.RequestInit{
				Method:  strings.ToUpper(method),
				Headers: header,
				Body:    body,
			})
			if err != nil {
				return err
			}
			if err := printResult(res, jq); err != nil {
				return err
			}
			if !res.IsOk() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Request header as name=value (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Raw request body, or @file to read it from a file")
	cmd.Flags().StringVar(&jq, "jq", "", "jq expression applied to a JSON response body")
	return cmd
}

func parseHeaders(pairs []string) (http.Header, error) {
	values, err := parsePairs(pairs)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	for name, value := range values {
		header.Set(name, value)
	}
	return header, nil
}
