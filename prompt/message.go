package prompt

// Role enumerates canonical message roles. Provider translation maps a
// subset of these onto each provider's own role vocabulary.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleDeveloper Role = "developer"
)

// Message is a (role, ordered content parts) unit. original holds the
// parts exactly as constructed, before any bind call, so Reset can always
// restore the pre-bind form regardless of how many binds ran in between.
type Message struct {
	Role       Role
	Parts      []Content
	ToolCallID string
	Name       string

	original []Content
}

func NewMessage(role Role, parts ...Content) Message {
	m := Message{Role: role, Parts: cloneParts(parts)}
	m.original = cloneParts(parts)
	return m
}

func System(text string) Message    { return NewMessage(RoleSystem, Text(text)) }
func User(text string) Message      { return NewMessage(RoleUser, Text(text)) }
func Assistant(text string) Message { return NewMessage(RoleAssistant, Text(text)) }

func UserParts(parts ...Content) Message { return NewMessage(RoleUser, parts...) }

func ToolResult(toolCallID, name, text string) Message {
	m := NewMessage(RoleTool, Text(text))
	m.ToolCallID = toolCallID
	m.Name = name
	return m
}

func cloneParts(parts []Content) []Content {
	if parts == nil {
		return nil
	}
	out := make([]Content, len(parts))
	for i, p := range parts {
		out[i] = p.clone()
	}
	return out
}

func (m Message) clone() Message {
	out := m
	out.Parts = cloneParts(m.Parts)
	out.original = cloneParts(m.original)
	return out
}

// bindText replaces every Text-content part's placeholder occurrences of
// name with replacement, leaving non-text parts untouched. The Message's
// original snapshot, captured at construction, is never modified.
func (m Message) bindText(name, replacement string) Message {
	out := m.clone()
	for i, p := range out.Parts {
		if p.Kind == ContentText {
			out.Parts[i] = p.withText(bindText(p.Text, name, replacement))
		}
	}
	return out
}

// reset returns the message with Parts restored to its pre-bind original.
func (m Message) reset() Message {
	out := m.clone()
	out.Parts = cloneParts(m.original)
	return out
}

// text concatenates every text-kind part, the common case of a
// single-part plain message.
func (m Message) text() string {
	if len(m.Parts) == 1 && m.Parts[0].Kind == ContentText {
		return m.Parts[0].Text
	}
	var sb []byte
	for _, p := range m.Parts {
		if p.Kind == ContentText {
			sb = append(sb, p.Text...)
		}
	}
	return string(sb)
}
