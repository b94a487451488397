package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want []string
	}{
		{name: "success", got: FormatSuccess("saved"), want: []string{SuccessIcon, "saved"}},
		{name: "error", got: FormatError("failed"), want: []string{ErrorIcon, "failed"}},
		{name: "warning", got: FormatWarning("careful"), want: []string{WarningIcon, "careful"}},
		{name: "info", got: FormatInfo("note"), want: []string{InfoIcon, "note"}},
		{name: "title", got: FormatTitle("Best ordering"), want: []string{MoneyIcon, "Best ordering"}},
		{name: "prompt", got: FormatPrompt("Extra"), want: []string{"Extra →"}},
		{name: "match", got: FormatMatch(true), want: []string{SuccessIcon}},
		{name: "mismatch", got: FormatMatch(false), want: []string{ErrorIcon}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				assert.Contains(t, tt.got, w)
			}
		})
	}
}
