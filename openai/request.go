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

package openai

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

// ConvertRequest remaps a neutral request into OpenAI chat completion
// parameters.
func ConvertRequest(req aiadapters.ModelRequest) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: convertMessages(req.Messages, req.SystemPrompt),
	}

	if req.Temperature != nil {
		params.Temperature = param.NewOpt(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = param.NewOpt(*req.TopP)
	}
	if req.MaxOutputTokens != nil {
		params.MaxCompletionTokens = param.NewOpt(int64(*req.MaxOutputTokens))
	}
	if len(req.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.StopSequences,
		}
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		params.ToolChoice = convertToolChoice(req.ToolChoice)
	}

	return params, nil
}

// convertMessages converts neutral messages to OpenAI message params. A
// non-empty system prompt is prepended as a system message.
func convertMessages(msgs []aiadapters.Message, systemPrompt string) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	if systemPrompt != "" {
		result = append(result, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range msgs {
		switch msg.Role {
		case aiadapters.RoleSystem:
			result = append(result, openai.SystemMessage(msg.TextContent()))
		case aiadapters.RoleUser:
			result = append(result, openai.UserMessage(msg.TextContent()))
		case aiadapters.RoleAssistant:
			toolCalls := msg.ToolCalls()
			if len(toolCalls) > 0 {
				oaiToolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(toolCalls))
				for i, tc := range toolCalls {
					oaiToolCalls[i] = openai.ChatCompletionMessageToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      tc.Function.Name,
							Arguments: tc.Function.Arguments,
						},
					}
				}
				result = append(result, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: param.NewOpt(msg.TextContent()),
						},
						ToolCalls: oaiToolCalls,
					},
				})
			} else {
				result = append(result, openai.AssistantMessage(msg.TextContent()))
			}
		case aiadapters.RoleTool:
			for _, p := range msg.Parts {
				if p.Type == aiadapters.MessagePartTypeToolResult {
					result = append(result, openai.ToolMessage(p.Content, p.ToolCallID))
				}
			}
		}
	}
	return result
}

// convertTools converts neutral tool definitions to OpenAI tool params.
func convertTools(tools []aiadapters.Tool) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: param.NewOpt(t.Description),
				Parameters:  shared.FunctionParameters(t.InputSchema),
			},
		}
	}
	return result
}

// convertToolChoice maps the neutral tool choice to OpenAI's option
// strings. Unrecognized values fall back to auto rather than failing.
func convertToolChoice(choice aiadapters.ToolChoice) openai.ChatCompletionToolChoiceOptionUnionParam {
	mode := "auto"
	switch choice {
	case aiadapters.ToolChoiceNone:
		mode = "none"
	case aiadapters.ToolChoiceRequired:
		mode = "required"
	}
	return openai.ChatCompletionToolChoiceOptionUnionParam{
		OfAuto: param.NewOpt(mode),
	}
}

// ConvertResponse remaps a full OpenAI chat completion into the neutral
// response shape. Only the first choice is considered.
func ConvertResponse(completion *openai.ChatCompletion) aiadapters.ModelResponse {
	resp := aiadapters.ModelResponse{
		ID:    completion.ID,
		Model: completion.Model,
		Usage: aiadapters.Usage{
			InputTokens:  aiadapters.Int(int(completion.Usage.PromptTokens)),
			OutputTokens: aiadapters.Int(int(completion.Usage.CompletionTokens)),
			TotalTokens:  aiadapters.Int(int(completion.Usage.TotalTokens)),
		},
		FinishReason: aiadapters.FinishReasonUnknown,
	}
	if len(completion.Choices) == 0 {
		return resp
	}

	choice := completion.Choices[0]
	if choice.Message.Content != "" {
		resp.Parts = append(resp.Parts, aiadapters.NewTextPart(choice.Message.Content))
	}
	for _, tc := range choice.Message.ToolCalls {
		resp.Parts = append(resp.Parts, aiadapters.NewToolCallPart(tc.ID, tc.Function.Name, tc.Function.Arguments))
	}
	resp.FinishReason = mapChoiceFinishReason(choice.FinishReason)

	return resp
}

// mapChoiceFinishReason maps an OpenAI finish reason back to the neutral
// enumeration.
func mapChoiceFinishReason(reason string) aiadapters.FinishReason {
	switch reason {
	case FinishReasonStop:
		return aiadapters.FinishReasonStop
	case FinishReasonLength:
		return aiadapters.FinishReasonLength
	case FinishReasonContentFilter:
		return aiadapters.FinishReasonContentFilter
	case FinishReasonToolCalls:
		return aiadapters.FinishReasonToolCalls
	default:
		return aiadapters.FinishReasonUnknown
	}
}
