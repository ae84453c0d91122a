package prompt

import (
	"fmt"
	"sort"
)

const schemaVersion = 1

// Prompt is the canonical, provider-agnostic request: a model identifier,
// the provider it targets, the conversation so far, and optional
// provider-specific settings and a structured response format.
//
// Bind/BindMut/Reset never mutate content other than Text parts, and Bind
// always returns an independent deep copy: the receiver is left
// untouched, so a Prompt built once can be bound many times from the same
// base without the calls interfering with each other.
type Prompt struct {
	Model              string
	Provider           Provider
	UserMessages       []Message
	SystemInstructions []Message
	ModelSettings      ModelSettings
	ResponseFormat     *ResponseFormat
}

// Option customizes a Prompt at construction time.
type Option func(*Prompt) error

func WithSystemInstructions(v any) Option {
	return func(p *Prompt) error {
		msgs, err := toMessages(RoleSystem, v)
		if err != nil {
			return err
		}
		p.SystemInstructions = msgs
		return nil
	}
}

func WithModelSettings(s ModelSettings) Option {
	return func(p *Prompt) error {
		p.ModelSettings = s
		return nil
	}
}

func WithResponseFormat(rf ResponseFormat) Option {
	return func(p *Prompt) error {
		p.ResponseFormat = &rf
		return nil
	}
}

// New builds a Prompt for model/provider from messages, which may be a
// string, []string, Content, []Content, Message, or []Message.
func New(model string, provider Provider, messages any, opts ...Option) (*Prompt, error) {
	if model == "" {
		return nil, &ValidationError{Reason: "model must not be empty"}
	}
	userMsgs, err := toMessages(RoleUser, messages)
	if err != nil {
		return nil, err
	}
	p := &Prompt{Model: model, Provider: provider, UserMessages: userMsgs}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if err := p.ModelSettings.validateAgainst(p.Provider); err != nil {
		return nil, err
	}
	return p, nil
}

func toMessages(defaultRole Role, v any) ([]Message, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []Message{NewMessage(defaultRole, Text(val))}, nil
	case []string:
		out := make([]Message, len(val))
		for i, s := range val {
			out[i] = NewMessage(defaultRole, Text(s))
		}
		return out, nil
	case Content:
		return []Message{NewMessage(defaultRole, val)}, nil
	case []Content:
		return []Message{NewMessage(defaultRole, val...)}, nil
	case Message:
		return []Message{val}, nil
	case []Message:
		return val, nil
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported message input type %T", v)}
	}
}

// ModelIdentifier returns the canonical "provider:model" identifier used
// in logs and cache keys.
func (p *Prompt) ModelIdentifier() string {
	return fmt.Sprintf("%s:%s", p.Provider, p.Model)
}

// DeepCopy returns a copy of p with its own message slices, message parts
// and ResponseFormat struct, so BindMut on the copy never affects p. The
// ResponseFormat's Schema bytes and the provider settings that
// ModelSettings points to are shared with p, not copied.
func (p *Prompt) DeepCopy() *Prompt {
	out := *p
	out.UserMessages = cloneMessages(p.UserMessages)
	out.SystemInstructions = cloneMessages(p.SystemInstructions)
	if p.ResponseFormat != nil {
		rf := *p.ResponseFormat
		out.ResponseFormat = &rf
	}
	return &out
}

func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.clone()
	}
	return out
}

// Bind returns a deep copy of p with every ${name} placeholder in text
// content replaced by value. Binding is idempotent: binding the same name
// twice with the same value leaves the result unchanged after the first
// application (further occurrences of ${name} no longer exist to match).
func (p *Prompt) Bind(name string, value any) (*Prompt, error) {
	out := p.DeepCopy()
	if err := out.BindMut(name, value); err != nil {
		return nil, err
	}
	return out, nil
}

// BindMut applies Bind's substitution in place.
func (p *Prompt) BindMut(name string, value any) error {
	repl, err := encodeBindValue(value)
	if err != nil {
		return err
	}
	for i := range p.UserMessages {
		p.UserMessages[i] = p.UserMessages[i].bindText(name, repl)
	}
	for i := range p.SystemInstructions {
		p.SystemInstructions[i] = p.SystemInstructions[i].bindText(name, repl)
	}
	return nil
}

// BindAll applies Bind for every entry of values, in sorted name order, so
// the result is deterministic even when one value itself contains another
// entry's placeholder.
func (p *Prompt) BindAll(values map[string]any) (*Prompt, error) {
	out := p.DeepCopy()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := out.BindMut(name, values[name]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Reset returns a deep copy of p with every message's content restored to
// its pre-bind original, undoing any number of prior Bind/BindMut calls.
func (p *Prompt) Reset() *Prompt {
	out := p.DeepCopy()
	for i := range out.UserMessages {
		out.UserMessages[i] = out.UserMessages[i].reset()
	}
	for i := range out.SystemInstructions {
		out.SystemInstructions[i] = out.SystemInstructions[i].reset()
	}
	return out
}
