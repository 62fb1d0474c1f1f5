package tool

// Result is the outcome of one tool invocation. It is a plain value: build it
// through one of the constructors and treat it as immutable afterwards.
// Exactly one side is meaningful depending on Success: Content (plus optional
// Metadata and Artifacts) on success, ErrorMessage on failure.
type Result struct {
	Success      bool           `json:"success"`
	Content      string         `json:"content,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Artifacts    []string       `json:"artifacts,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// Success creates a successful result with text content.
func Success(content string) Result {
	return Result{Success: true, Content: content}
}

// SuccessWithMetadata creates a successful result carrying structured
// side-information, such as which files were processed.
func SuccessWithMetadata(content string, metadata map[string]any) Result {
	return Result{Success: true, Content: content, Metadata: metadata}
}

// SuccessWithArtifacts creates a successful result listing produced file paths.
func SuccessWithArtifacts(content string, artifacts ...string) Result {
	return Result{Success: true, Content: content, Artifacts: artifacts}
}

// Failure creates a failed result. This is the channel for business-level
// problems a tool detects itself; contract violations surface as ToolError
// instead.
func Failure(message string) Result {
	return Result{Success: false, ErrorMessage: message}
}
