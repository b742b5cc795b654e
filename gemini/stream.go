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
	"errors"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

// StreamConfig configures a Gemini stream conversion.
type StreamConfig struct {
	// ResponseID is the response identifier stamped on every snapshot.
	// Generated when empty.
	ResponseID string
	// Model is reported as the snapshot's modelVersion.
	Model string
}

// StreamState accumulates a Gemini stream conversion. The protocol resends
// the complete response on every increment, so the state holds everything
// emitted so far and each output is rebuilt from it.
//
// A StreamState is not safe for concurrent use; drive it from a single
// goroutine per stream.
type StreamState struct {
	responseID string
	model      string

	accumulatedText string
	functionCalls   map[string]*functionCallState
	callOrder       []string

	promptTokens     int
	candidatesTokens int
	totalTokens      *int
}

type functionCallState struct {
	name string
	args string
}

// NewStreamState returns a stream state for one logical stream.
func NewStreamState(config StreamConfig) *StreamState {
	id := config.ResponseID
	if id == "" {
		id = aiadapters.DefaultIDGenerator("resp")
	}

	return &StreamState{
		responseID:    id,
		model:         config.Model,
		functionCalls: make(map[string]*functionCallState),
	}
}

// ConvertResult is the outcome of converting a single chunk: a snapshot,
// an error, or neither when the chunk produces no output.
type ConvertResult struct {
	Response *GenerateContentResponse
	Err      error
}

// Skip reports whether the chunk produced no output.
func (r ConvertResult) Skip() bool {
	return r.Response == nil && r.Err == nil
}

func emit(response *GenerateContentResponse) ConvertResult {
	return ConvertResult{Response: response}
}

func fail(err error) ConvertResult {
	return ConvertResult{Err: err}
}

// ConvertChunk folds one chunk into the accumulated state and returns the
// complete response-so-far snapshot when the chunk advances visible content.
func (s *StreamState) ConvertChunk(chunk aiadapters.StreamChunk) ConvertResult {
	switch c := chunk.(type) {
	case aiadapters.TextDeltaChunk:
		s.accumulatedText += c.Text

		return emit(s.snapshot(""))
	case aiadapters.ToolInputStartChunk:
		s.recordCall(c.ID, c.ToolName, "")

		return ConvertResult{}
	case aiadapters.ToolInputDeltaChunk:
		call, ok := s.functionCalls[c.ID]
		if !ok {
			return fail(&aiadapters.UnknownToolCallError{ID: c.ID})
		}
		call.args += c.Delta

		return emit(s.snapshot(""))
	case aiadapters.ToolInputEndChunk:
		if _, ok := s.functionCalls[c.ID]; !ok {
			return fail(&aiadapters.UnknownToolCallError{ID: c.ID})
		}
		// Args are already fully accumulated; resend so the caller sees
		// the final parsed state.
		return emit(s.snapshot(""))
	case aiadapters.ToolCallChunk:
		s.recordCall(c.ToolCallID, c.ToolName, string(c.Input))

		return emit(s.snapshot(""))
	case aiadapters.FinishStepChunk:
		s.recordUsage(c.Usage)

		return ConvertResult{}
	case aiadapters.FinishChunk:
		s.recordUsage(c.TotalUsage)
		s.totalTokens = c.TotalUsage.TotalTokens

		return emit(s.snapshot(mapFinishReason(c.FinishReason)))
	case aiadapters.ErrorChunk:
		return fail(errors.New(aiadapters.ErrorMessage(c.Err)))
	case aiadapters.StartChunk, aiadapters.StartStepChunk,
		aiadapters.TextStartChunk, aiadapters.TextEndChunk,
		aiadapters.ReasoningStartChunk, aiadapters.ReasoningDeltaChunk, aiadapters.ReasoningEndChunk,
		aiadapters.ToolResultChunk, aiadapters.ToolErrorChunk,
		aiadapters.AbortChunk, aiadapters.SourceChunk, aiadapters.FileChunk, aiadapters.RawChunk:
		return ConvertResult{}
	default:
		return fail(&aiadapters.UnsupportedChunkError{Type: chunk.ChunkType()})
	}
}

func (s *StreamState) recordCall(id, name, args string) {
	if _, ok := s.functionCalls[id]; !ok {
		s.callOrder = append(s.callOrder, id)
	}
	s.functionCalls[id] = &functionCallState{name: name, args: args}
}

func (s *StreamState) recordUsage(usage aiadapters.Usage) {
	if usage.InputTokens != nil {
		s.promptTokens = *usage.InputTokens
	}
	if usage.OutputTokens != nil {
		s.candidatesTokens = *usage.OutputTokens
	}
}

// snapshot rebuilds the full response from the accumulated state. Partial
// function-call arguments that do not parse yet are reported as an empty
// object rather than failing the conversion.
func (s *StreamState) snapshot(finishReason FinishReason) *GenerateContentResponse {
	var parts []Part
	if s.accumulatedText != "" {
		text := s.accumulatedText
		parts = append(parts, Part{Text: &text})
	}
	for _, id := range s.callOrder {
		call := s.functionCalls[id]
		parts = append(parts, Part{FunctionCall: &FunctionCall{
			ID:   id,
			Name: call.name,
			Args: aiadapters.ParseJSONObject(call.args),
		}})
	}
	if len(parts) == 0 {
		empty := ""
		parts = append(parts, Part{Text: &empty})
	}

	total := s.promptTokens + s.candidatesTokens
	if s.totalTokens != nil {
		total = *s.totalTokens
	}

	return &GenerateContentResponse{
		Candidates: []Candidate{{
			Content: Content{
				Role:  "model",
				Parts: parts,
			},
			FinishReason: finishReason,
			Index:        0,
		}},
		UsageMetadata: &UsageMetadata{
			PromptTokenCount:     s.promptTokens,
			CandidatesTokenCount: s.candidatesTokens,
			TotalTokenCount:      total,
		},
		ModelVersion: s.model,
		ResponseID:   s.responseID,
	}
}

func mapFinishReason(reason aiadapters.FinishReason) FinishReason {
	switch reason {
	case aiadapters.FinishReasonStop, aiadapters.FinishReasonToolCalls:
		return FinishReasonStop
	case aiadapters.FinishReasonLength:
		return FinishReasonMaxTokens
	case aiadapters.FinishReasonContentFilter:
		return FinishReasonSafety
	default:
		return FinishReasonOther
	}
}
