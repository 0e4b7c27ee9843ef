// Package chat defines the message shapes the service sends and the
// transport interface it sends them through. The host platform owns the
// actual socket; this service only builds messages and hands them over.
package chat

const (
	ColorDefault = 0x7289DA
	ColorSuccess = 0x43B581
	ColorError   = 0xED4245
	ColorWarning = 0xFAA61A
)

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer,omitempty"`
}

const (
	ComponentButton = "button"
	ComponentSelect = "select"
)

// Component is a button or selector attached to a message. CustomID carries
// the serialized interaction envelope the host echoes back on click.
type Component struct {
	Kind     string         `json:"kind"`
	Label    string         `json:"label"`
	CustomID string         `json:"custom_id"`
	Style    string         `json:"style,omitempty"`
	Disabled bool           `json:"disabled,omitempty"`
	Options  []SelectOption `json:"options,omitempty"`
}

type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Message is one outbound chat message: plain content (used for user pings),
// an optional embed, and component rows.
type Message struct {
	Content    string        `json:"content,omitempty"`
	Embed      *Embed        `json:"embed,omitempty"`
	Components [][]Component `json:"components,omitempty"`
}
