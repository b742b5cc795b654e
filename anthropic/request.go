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

package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

// defaultMaxTokens applies when the request does not set a limit; the
// Anthropic API requires the field.
const defaultMaxTokens = 4096

// ConvertRequest remaps a neutral request into Anthropic Messages API
// parameters.
func ConvertRequest(req aiadapters.ModelRequest) (anthropic.MessageNewParams, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	maxTokens := int64(defaultMaxTokens)
	if req.MaxOutputTokens != nil {
		maxTokens = int64(*req.MaxOutputTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.SystemPrompt},
		}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}
	if len(req.StopSequences) > 0 {
		params.StopSequences = req.StopSequences
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		if choice := convertToolChoice(req.ToolChoice); choice != nil {
			params.ToolChoice = *choice
		}
	}

	return params, nil
}

// convertMessages converts neutral messages to Anthropic message params.
// System messages are rejected here: the Anthropic API carries the system
// prompt as a top-level field, not a message.
func convertMessages(msgs []aiadapters.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(msgs))
	for i, msg := range msgs {
		switch msg.Role {
		case aiadapters.RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.TextContent())))

		case aiadapters.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
			for _, p := range msg.Parts {
				switch p.Type {
				case aiadapters.MessagePartTypeText:
					blocks = append(blocks, anthropic.NewTextBlock(p.Content))
				case aiadapters.MessagePartTypeToolCall:
					input := aiadapters.ParseJSONOrString(p.Arguments)
					blocks = append(blocks, anthropic.NewToolUseBlock(p.ID, input, p.Name))
				}
			}
			if len(blocks) > 0 {
				result = append(result, anthropic.NewAssistantMessage(blocks...))
			}

		case aiadapters.RoleTool:
			// Tool results travel as user-role tool_result blocks.
			for _, p := range msg.Parts {
				if p.Type == aiadapters.MessagePartTypeToolResult {
					result = append(result, anthropic.NewUserMessage(
						anthropic.NewToolResultBlock(p.ToolCallID, p.Content, p.IsError),
					))
				}
			}

		case aiadapters.RoleSystem:
			return nil, fmt.Errorf("message %d: system prompt must be set on the request, not as a message", i)
		}
	}
	return result, nil
}

// convertTools converts neutral tool definitions to Anthropic tool params.
// The neutral input schema is a full JSON schema; Anthropic wants the
// properties and required list split out.
func convertTools(tools []aiadapters.Tool) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema := anthropic.ToolInputSchemaParam{
			Properties: t.InputSchema["properties"],
		}
		if required, ok := t.InputSchema["required"].([]any); ok {
			schema.Required = make([]string, 0, len(required))
			for _, v := range required {
				if s, ok := v.(string); ok {
					schema.Required = append(schema.Required, s)
				}
			}
		}

		tool := anthropic.ToolUnionParamOfTool(schema, t.Name)
		if t.Description != "" {
			tool.OfTool.Description = anthropic.String(t.Description)
		}
		result = append(result, tool)
	}
	return result
}

// convertToolChoice maps the neutral tool choice to Anthropic's union.
// Unrecognized values fall back to auto rather than failing.
func convertToolChoice(choice aiadapters.ToolChoice) *anthropic.ToolChoiceUnionParam {
	switch choice {
	case "":
		return nil
	case aiadapters.ToolChoiceNone:
		return &anthropic.ToolChoiceUnionParam{
			OfNone: &anthropic.ToolChoiceNoneParam{},
		}
	case aiadapters.ToolChoiceRequired:
		return &anthropic.ToolChoiceUnionParam{
			OfAny: &anthropic.ToolChoiceAnyParam{},
		}
	default:
		return &anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{},
		}
	}
}

// ConvertResponse remaps a full Anthropic message into the neutral
// response shape.
func ConvertResponse(msg *anthropic.Message) aiadapters.ModelResponse {
	parts := make([]aiadapters.MessagePart, 0, len(msg.Content))
	for _, content := range msg.Content {
		switch content.Type {
		case "text":
			parts = append(parts, aiadapters.NewTextPart(content.Text))
		case "thinking":
			parts = append(parts, aiadapters.NewReasoningPart(content.Thinking))
		case "tool_use":
			parts = append(parts, aiadapters.NewToolCallPart(content.ID, content.Name, string(content.Input)))
		}
	}

	return aiadapters.ModelResponse{
		ID:           msg.ID,
		Model:        string(msg.Model),
		Parts:        parts,
		FinishReason: mapFinishReason(string(msg.StopReason)),
		Usage: aiadapters.Usage{
			InputTokens:  aiadapters.Int(int(msg.Usage.InputTokens)),
			OutputTokens: aiadapters.Int(int(msg.Usage.OutputTokens)),
			TotalTokens:  aiadapters.Int(int(msg.Usage.InputTokens + msg.Usage.OutputTokens)),
		},
	}
}

// mapFinishReason maps an Anthropic stop reason back to the neutral
// enumeration.
func mapFinishReason(stopReason string) aiadapters.FinishReason {
	switch StopReason(stopReason) {
	case StopReasonEndTurn:
		return aiadapters.FinishReasonStop
	case StopReasonMaxTokens:
		return aiadapters.FinishReasonLength
	case StopReasonToolUse:
		return aiadapters.FinishReasonToolCalls
	case StopReasonRefusal:
		return aiadapters.FinishReasonContentFilter
	default:
		return aiadapters.FinishReasonUnknown
	}
}
