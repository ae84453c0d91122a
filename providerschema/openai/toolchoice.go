package openai

import (
	"encoding/json"
	"fmt"
)

// ToolChoice is a closed union mirroring the Chat Completions tool_choice
// field: the bare strings "none"/"auto"/"required", an object pinning a
// specific function or custom tool by name, or an allowed_tools object
// restricting the model to a named subset of the request's tool list.
type ToolChoice struct {
	Mode         string        // "none" | "auto" | "required" | "function" | "custom" | "allowed_tools"
	Function     string        // set only when Mode == "function"
	Custom       string        // set only when Mode == "custom"
	AllowedTools *AllowedTools // set only when Mode == "allowed_tools"
}

// AllowedTools restricts tool_choice to a named subset of the request's
// tools, itself choosing between "auto" (model may skip calling any) and
// "required" (model must call one of the listed tools).
type AllowedTools struct {
	Mode  string // "auto" | "required"
	Tools []ToolReference
}

// ToolReference names one tool by type and, for function tools, by name.
type ToolReference struct {
	Type     string
	Function string
}

func ToolChoiceNone() ToolChoice     { return ToolChoice{Mode: "none"} }
func ToolChoiceAuto() ToolChoice     { return ToolChoice{Mode: "auto"} }
func ToolChoiceRequired() ToolChoice { return ToolChoice{Mode: "required"} }
func ToolChoiceFunc(name string) ToolChoice {
	return ToolChoice{Mode: "function", Function: name}
}
func ToolChoiceCustom(name string) ToolChoice {
	return ToolChoice{Mode: "custom", Custom: name}
}
func ToolChoiceAllowed(mode string, tools ...ToolReference) ToolChoice {
	return ToolChoice{Mode: "allowed_tools", AllowedTools: &AllowedTools{Mode: mode, Tools: tools}}
}

func (t ToolChoice) MarshalJSON() ([]byte, error) {
	switch t.Mode {
	case "none", "auto", "required":
		return json.Marshal(t.Mode)
	case "function":
		return json.Marshal(struct {
			Type     string `json:"type"`
			Function struct {
				Name string `json:"name"`
			} `json:"function"`
		}{
			Type: "function",
			Function: struct {
				Name string `json:"name"`
			}{Name: t.Function},
		})
	case "custom":
		return json.Marshal(struct {
			Type   string `json:"type"`
			Custom struct {
				Name string `json:"name"`
			} `json:"custom"`
		}{
			Type: "custom",
			Custom: struct {
				Name string `json:"name"`
			}{Name: t.Custom},
		})
	case "allowed_tools":
		if t.AllowedTools == nil {
			return nil, fmt.Errorf("openai: tool_choice mode allowed_tools requires AllowedTools")
		}
		wireTools := make([]toolReferenceWire, 0, len(t.AllowedTools.Tools))
		for _, ref := range t.AllowedTools.Tools {
			w := toolReferenceWire{Type: ref.Type}
			w.Function.Name = ref.Function
			wireTools = append(wireTools, w)
		}
		return json.Marshal(struct {
			Type         string `json:"type"`
			AllowedTools struct {
				Mode  string              `json:"mode"`
				Tools []toolReferenceWire `json:"tools"`
			} `json:"allowed_tools"`
		}{
			Type: "allowed_tools",
			AllowedTools: struct {
				Mode  string              `json:"mode"`
				Tools []toolReferenceWire `json:"tools"`
			}{Mode: t.AllowedTools.Mode, Tools: wireTools},
		})
	default:
		return nil, fmt.Errorf("openai: unknown tool_choice mode %q", t.Mode)
	}
}

type toolReferenceWire struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

func (t *ToolChoice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Mode = s
		t.Function = ""
		t.Custom = ""
		t.AllowedTools = nil
		return nil
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Type {
	case "function":
		var obj struct {
			Function struct {
				Name string `json:"name"`
			} `json:"function"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		t.Mode = "function"
		t.Function = obj.Function.Name
	case "custom":
		var obj struct {
			Custom struct {
				Name string `json:"name"`
			} `json:"custom"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		t.Mode = "custom"
		t.Custom = obj.Custom.Name
	case "allowed_tools":
		var obj struct {
			AllowedTools struct {
				Mode  string              `json:"mode"`
				Tools []toolReferenceWire `json:"tools"`
			} `json:"allowed_tools"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		refs := make([]ToolReference, 0, len(obj.AllowedTools.Tools))
		for _, w := range obj.AllowedTools.Tools {
			refs = append(refs, ToolReference{Type: w.Type, Function: w.Function.Name})
		}
		t.Mode = "allowed_tools"
		t.AllowedTools = &AllowedTools{Mode: obj.AllowedTools.Mode, Tools: refs}
	default:
		return fmt.Errorf("openai: unknown tool_choice type %q", probe.Type)
	}
	return nil
}

// Tool describes a callable function exposed to the model.
type Tool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		Parameters  json.RawMessage `json:"parameters,omitempty"`
		Strict      bool            `json:"strict,omitempty"`
	} `json:"function"`
}

func NewFunctionTool(name, description string, parameters json.RawMessage, strict bool) Tool {
	t := Tool{Type: "function"}
	t.Function.Name = name
	t.Function.Description = description
	t.Function.Parameters = parameters
	t.Function.Strict = strict
	return t
}
