package protocol

// Role identifies the author of a content turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is a single piece of a content turn. Only text parts are used.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content is one conversation turn.
type Content struct {
	Role  Role   `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// NewContent creates a single-part text Content.
func NewContent(role Role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// InitContents creates a one-turn conversation from a user prompt.
func InitContents(prompt string) []Content {
	return []Content{NewContent(RoleUser, prompt)}
}
