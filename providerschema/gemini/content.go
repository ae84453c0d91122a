// Package gemini models the Google Gemini/Vertex GenerateContent wire
// schema as a set of closed tagged unions that round-trip unknown fields.
package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// Part is one element of a Content.Parts array: a closed union over plain
// text, inline base64 data, a file reference, a function call/response, or
// a code execution step emitted by a model with the code execution tool
// enabled.
type Part struct {
	Kind           string // "text" | "inline_data" | "file_data" | "function_call" | "function_response" | "executable_code" | "code_execution_result"
	Text           string
	InlineData     *Blob
	FileData       *FileData
	FunctionCall   *FunctionCall
	FunctionResp   *FunctionResponse
	ExecutableCode *ExecutableCode
	CodeExecResult *CodeExecutionResult
	Extra          map[string]json.RawMessage
}

// ExecutableCode is code the model generated and asked the runtime to run,
// as the code_execution tool is enabled.
type ExecutableCode struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// CodeExecutionResult is the runtime outcome of an ExecutableCode part.
type CodeExecutionResult struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output,omitempty"`
}

type Blob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type FileData struct {
	MIMEType string `json:"mime_type,omitempty"`
	FileURI  string `json:"file_uri"`
}

type FunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type FunctionResponse struct {
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response"`
}

func TextPart(text string) Part { return Part{Kind: "text", Text: text} }
func InlineDataPart(mime, b64 string) Part {
	return Part{Kind: "inline_data", InlineData: &Blob{MIMEType: mime, Data: b64}}
}
func FileDataPart(mime, uri string) Part {
	return Part{Kind: "file_data", FileData: &FileData{MIMEType: mime, FileURI: uri}}
}
func FunctionCallPart(name string, args json.RawMessage) Part {
	return Part{Kind: "function_call", FunctionCall: &FunctionCall{Name: name, Args: args}}
}
func FunctionResponsePart(name string, resp json.RawMessage) Part {
	return Part{Kind: "function_response", FunctionResp: &FunctionResponse{Name: name, Response: resp}}
}
func ExecutableCodePart(language, code string) Part {
	return Part{Kind: "executable_code", ExecutableCode: &ExecutableCode{Language: language, Code: code}}
}
func CodeExecutionResultPart(outcome, output string) Part {
	return Part{Kind: "code_execution_result", CodeExecResult: &CodeExecutionResult{Outcome: outcome, Output: output}}
}

var partKnownKeys = map[string]struct{}{
	"text": {}, "inline_data": {}, "file_data": {}, "function_call": {}, "function_response": {},
	"executable_code": {}, "code_execution_result": {},
}

func (p Part) MarshalJSON() ([]byte, error) {
	type wire struct {
		Text           string               `json:"text,omitempty"`
		InlineData     *Blob                `json:"inline_data,omitempty"`
		FileData       *FileData            `json:"file_data,omitempty"`
		FunctionCall   *FunctionCall        `json:"function_call,omitempty"`
		FunctionResp   *FunctionResponse    `json:"function_response,omitempty"`
		ExecutableCode *ExecutableCode      `json:"executable_code,omitempty"`
		CodeExecResult *CodeExecutionResult `json:"code_execution_result,omitempty"`
	}
	w := wire{}
	switch p.Kind {
	case "text":
		w.Text = p.Text
	case "inline_data":
		w.InlineData = p.InlineData
	case "file_data":
		w.FileData = p.FileData
	case "function_call":
		w.FunctionCall = p.FunctionCall
	case "function_response":
		w.FunctionResp = p.FunctionResp
	case "executable_code":
		w.ExecutableCode = p.ExecutableCode
	case "code_execution_result":
		w.CodeExecResult = p.CodeExecResult
	default:
		return nil, fmt.Errorf("gemini: unknown part kind %q", p.Kind)
	}
	return jsonutil.MergeExtra(w, p.Extra)
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var probe struct {
		Text           string               `json:"text"`
		InlineData     *Blob                `json:"inline_data"`
		FileData       *FileData            `json:"file_data"`
		FunctionCall   *FunctionCall        `json:"function_call"`
		FunctionResp   *FunctionResponse    `json:"function_response"`
		ExecutableCode *ExecutableCode      `json:"executable_code"`
		CodeExecResult *CodeExecutionResult `json:"code_execution_result"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, partKnownKeys)
	if err != nil {
		return err
	}
	switch {
	case probe.InlineData != nil:
		p.Kind = "inline_data"
		p.InlineData = probe.InlineData
	case probe.FileData != nil:
		p.Kind = "file_data"
		p.FileData = probe.FileData
	case probe.FunctionCall != nil:
		p.Kind = "function_call"
		p.FunctionCall = probe.FunctionCall
	case probe.FunctionResp != nil:
		p.Kind = "function_response"
		p.FunctionResp = probe.FunctionResp
	case probe.ExecutableCode != nil:
		p.Kind = "executable_code"
		p.ExecutableCode = probe.ExecutableCode
	case probe.CodeExecResult != nil:
		p.Kind = "code_execution_result"
		p.CodeExecResult = probe.CodeExecResult
	default:
		p.Kind = "text"
		p.Text = probe.Text
	}
	p.Extra = extra
	return nil
}

// Content is one turn of the "contents" array: a role tag plus an ordered
// list of Parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}
