package main

import (
	"encoding/json"
	"fmt"

	"github.com/loykin/petfriends/internal/util"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type report struct {
	Status int `json:"status" yaml:"status"`
	Body   any `json:"body" yaml:"body"`
}

func newReport(status int, body string) report {
	r := report{Status: status, Body: body}
	if body != "" && gjson.Valid(body) {
		var v any
		if err := json.Unmarshal([]byte(body), &v); err == nil {
			r.Body = v
		}
	}
	return r
}

// printResult writes status and body in the format chosen with --output.
func printResult(cmd *cobra.Command, status int, body string) error {
	format, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()
	switch util.TrimAndLower(format) {
	case "", outputText:
		_, err := fmt.Fprintf(w, "status: %d\n%s\n", status, body)
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(status, body))
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(status, body)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid output format: %s (valid: text, json, yaml)", format)
	}
}
