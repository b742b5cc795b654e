// Licensed to Alexandre VILAIN under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Alexandre VILAIN licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package aiadapters

import "strings"

// Role represents a message role in the conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// MessagePartType represents the type of a message part.
type MessagePartType string

const (
	MessagePartTypeText       MessagePartType = "text"
	MessagePartTypeReasoning  MessagePartType = "reasoning"
	MessagePartTypeToolCall   MessagePartType = "tool-call"
	MessagePartTypeToolResult MessagePartType = "tool-result"
)

// MessagePart represents a part of a message in the neutral model.
// This is a union type — fields are relevant depending on Type:
//   - "text" / "reasoning": Content
//   - "tool-call": ID, Name, Arguments
//   - "tool-result": ToolCallID, Content
type MessagePart struct {
	Type MessagePartType `json:"type"`

	// Shared by text, reasoning and tool-result parts.
	Content string `json:"content,omitempty"`

	// tool-call fields
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"` // JSON-encoded arguments

	// tool-result fields
	ToolCallID string `json:"toolCallId,omitempty"`
	IsError    bool   `json:"isError,omitempty"`
}

// ToolCallFunction holds the function name and JSON-encoded arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall represents a tool/function call from the model.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// Message represents a message in the neutral model. Messages use a
// parts-based format where content is structured as an array of typed parts.
type Message struct {
	Role  Role          `json:"role"`
	Parts []MessagePart `json:"parts,omitempty"`
}

// TextContent returns the concatenated text content from all text parts.
func (m Message) TextContent() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == MessagePartTypeText {
			sb.WriteString(p.Content)
		}
	}
	return sb.String()
}

// ToolCalls returns all tool call parts as ToolCall values.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if p.Type == MessagePartTypeToolCall {
			calls = append(calls, ToolCall{
				ID:   p.ID,
				Type: "function",
				Function: ToolCallFunction{
					Name:      p.Name,
					Arguments: p.Arguments,
				},
			})
		}
	}
	return calls
}

// NewTextPart creates a text message part.
func NewTextPart(content string) MessagePart {
	return MessagePart{Type: MessagePartTypeText, Content: content}
}

// NewReasoningPart creates a reasoning message part.
func NewReasoningPart(content string) MessagePart {
	return MessagePart{Type: MessagePartTypeReasoning, Content: content}
}

// NewToolCallPart creates a tool-call message part.
func NewToolCallPart(id, name, arguments string) MessagePart {
	return MessagePart{
		Type:      MessagePartTypeToolCall,
		ID:        id,
		Name:      name,
		Arguments: arguments,
	}
}

// NewToolResultPart creates a tool-result message part.
func NewToolResultPart(toolCallID, content string) MessagePart {
	return MessagePart{
		Type:       MessagePartTypeToolResult,
		ToolCallID: toolCallID,
		Content:    content,
	}
}

// Tool defines a tool/function the model can call.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// ToolChoice constrains how the model may use tools.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// ModelRequest is the neutral shape of a full (non-streaming) generation
// request, remapped structurally into each vendor's own request type.
type ModelRequest struct {
	Model           string     `json:"model"`
	Messages        []Message  `json:"messages"`
	SystemPrompt    string     `json:"systemPrompt,omitempty"`
	Tools           []Tool     `json:"tools,omitempty"`
	ToolChoice      ToolChoice `json:"toolChoice,omitempty"`
	Temperature     *float64   `json:"temperature,omitempty"`
	TopP            *float64   `json:"topP,omitempty"`
	MaxOutputTokens *int       `json:"maxOutputTokens,omitempty"`
	StopSequences   []string   `json:"stopSequences,omitempty"`
}

// ModelResponse is the neutral shape of a full generation response.
type ModelResponse struct {
	ID           string        `json:"id,omitempty"`
	Model        string        `json:"model,omitempty"`
	Parts        []MessagePart `json:"parts"`
	FinishReason FinishReason  `json:"finishReason"`
	Usage        Usage         `json:"usage"`
}
