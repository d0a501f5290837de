package recognizer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed prompts/identify_system.txt
var identifySystemPrompt string

//go:embed prompts/identify_probe.txt
var identifyProbePrompt string

// buildSystemPrompt fills the confidence bar into the embedded instruction.
func buildSystemPrompt(threshold float64) string {
	return fmt.Sprintf(identifySystemPrompt, threshold)
}

// referenceLabel builds the text label paired with a reference photo.
// The model copies staffId/staffName back verbatim from this label.
func referenceLabel(i int, ref Reference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reference %d: staffId=%q staffName=%q", i+1, ref.StaffID, ref.Name)
	if ref.Role != "" {
		fmt.Fprintf(&b, " role=%q", ref.Role)
	}
	return b.String()
}

// parseResult validates a model reply against the expected schema.
// An empty body, broken JSON, or an identified verdict without a staff ID
// all count as malformed.
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrBadResponse)
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %f outside [0,1]", ErrBadResponse, result.Confidence)
	}
	if result.Identified && result.StaffID == "" {
		return nil, fmt.Errorf("%w: identified without a staffId", ErrBadResponse)
	}

	return &result, nil
}
