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

package gemini

import (
	"encoding/json"
	"fmt"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

// ConvertRequest converts a neutral request into a Gemini
// generateContent request.
func ConvertRequest(request aiadapters.ModelRequest) (GenerateContentRequest, error) {
	contents, err := convertMessages(request.Messages)
	if err != nil {
		return GenerateContentRequest{}, err
	}

	out := GenerateContentRequest{
		Contents: contents,
	}

	if request.SystemPrompt != "" {
		prompt := request.SystemPrompt
		out.SystemInstruction = &Content{
			Parts: []Part{{Text: &prompt}},
		}
	}

	if len(request.Tools) > 0 {
		out.Tools = []Tool{{FunctionDeclarations: convertTools(request.Tools)}}
	}
	if config := convertToolChoice(request.ToolChoice); config != nil {
		out.ToolConfig = config
	}

	if request.Temperature != nil || request.TopP != nil || request.MaxOutputTokens != nil || len(request.StopSequences) > 0 {
		out.GenerationConfig = &GenerationConfig{
			Temperature:     request.Temperature,
			TopP:            request.TopP,
			MaxOutputTokens: request.MaxOutputTokens,
			StopSequences:   request.StopSequences,
		}
	}

	return out, nil
}

func convertMessages(messages []aiadapters.Message) ([]Content, error) {
	contents := make([]Content, 0, len(messages))

	for _, message := range messages {
		switch message.Role {
		case aiadapters.RoleUser:
			text := message.TextContent()
			contents = append(contents, Content{
				Role:  "user",
				Parts: []Part{{Text: &text}},
			})
		case aiadapters.RoleAssistant:
			content := Content{Role: "model"}
			for _, part := range message.Parts {
				switch part.Type {
				case aiadapters.MessagePartTypeText:
					text := part.Content
					content.Parts = append(content.Parts, Part{Text: &text})
				case aiadapters.MessagePartTypeToolCall:
					content.Parts = append(content.Parts, Part{FunctionCall: &FunctionCall{
						ID:   part.ID,
						Name: part.Name,
						Args: aiadapters.ParseJSONObject(part.Arguments),
					}})
				}
			}
			contents = append(contents, content)
		case aiadapters.RoleTool:
			for _, part := range message.Parts {
				if part.Type != aiadapters.MessagePartTypeToolResult {
					continue
				}
				contents = append(contents, Content{
					Role: "user",
					Parts: []Part{{FunctionResponse: &FunctionResponse{
						ID:   part.ToolCallID,
						Name: part.Name,
						Response: map[string]any{
							"result": aiadapters.ParseJSONOrString(part.Content),
						},
					}}},
				})
			}
		case aiadapters.RoleSystem:
			return nil, fmt.Errorf("system messages must be provided as the system prompt, not in the message list")
		default:
			return nil, fmt.Errorf("unsupported message role: %s", message.Role)
		}
	}

	return contents, nil
}

func convertTools(tools []aiadapters.Tool) []FunctionDeclaration {
	declarations := make([]FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.InputSchema,
		})
	}
	return declarations
}

func convertToolChoice(choice aiadapters.ToolChoice) *ToolConfig {
	var mode string
	switch choice {
	case aiadapters.ToolChoiceAuto:
		mode = "AUTO"
	case aiadapters.ToolChoiceNone:
		mode = "NONE"
	case aiadapters.ToolChoiceRequired:
		mode = "ANY"
	default:
		return nil
	}

	return &ToolConfig{FunctionCallingConfig: FunctionCallingConfig{Mode: mode}}
}

// ConvertResponse converts a complete Gemini response into the neutral
// response shape.
func ConvertResponse(response *GenerateContentResponse) (aiadapters.ModelResponse, error) {
	out := aiadapters.ModelResponse{
		ID:           response.ResponseID,
		Model:        response.ModelVersion,
		FinishReason: aiadapters.FinishReasonStop,
	}

	if response.UsageMetadata != nil {
		out.Usage = aiadapters.Usage{
			InputTokens:  aiadapters.Int(response.UsageMetadata.PromptTokenCount),
			OutputTokens: aiadapters.Int(response.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  aiadapters.Int(response.UsageMetadata.TotalTokenCount),
		}
	}

	if len(response.Candidates) == 0 {
		return out, fmt.Errorf("response has no candidates")
	}
	candidate := response.Candidates[0]

	for _, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return out, fmt.Errorf("marshaling function call args: %w", err)
			}
			out.Parts = append(out.Parts, aiadapters.NewToolCallPart(part.FunctionCall.ID, part.FunctionCall.Name, string(args)))
		case part.Text != nil && *part.Text != "":
			out.Parts = append(out.Parts, aiadapters.NewTextPart(*part.Text))
		}
	}

	out.FinishReason = mapCandidateFinishReason(candidate, out.Parts)

	return out, nil
}

func mapCandidateFinishReason(candidate Candidate, parts []aiadapters.MessagePart) aiadapters.FinishReason {
	switch candidate.FinishReason {
	case FinishReasonMaxTokens:
		return aiadapters.FinishReasonLength
	case FinishReasonSafety:
		return aiadapters.FinishReasonContentFilter
	case FinishReasonStop:
		// A stop after function calls means the model wants tools run.
		for _, part := range parts {
			if part.Type == aiadapters.MessagePartTypeToolCall {
				return aiadapters.FinishReasonToolCalls
			}
		}
		return aiadapters.FinishReasonStop
	default:
		return aiadapters.FinishReasonOther
	}
}
