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

import "github.com/tidwall/gjson"

// ParseJSONOrString parses s as JSON and returns the decoded value. If s is
// not valid JSON it is returned unchanged, so callers can hand tool-call
// arguments through whether they arrive as JSON text or plain strings.
func ParseJSONOrString(s string) any {
	if !gjson.Valid(s) {
		return s
	}
	return gjson.Parse(s).Value()
}

// ParseJSONObject parses s as a JSON object. Anything that is not a valid
// object — including the truncated partial JSON seen mid-stream while tool
// arguments are still accumulating — yields an empty map instead of an
// error.
func ParseJSONObject(s string) map[string]any {
	if !gjson.Valid(s) {
		return map[string]any{}
	}
	if obj, ok := gjson.Parse(s).Value().(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}
