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

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestEncodeSSE(t *testing.T) {
	tests := map[string]struct {
		event    string
		data     any
		expected string
	}{
		"with event name": {
			event:    "message_stop",
			data:     map[string]string{"type": "message_stop"},
			expected: "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n",
		},
		"without event name": {
			event:    "",
			data:     map[string]int{"n": 1},
			expected: "data: {\"n\":1}\n\n",
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			var buf bytes.Buffer
			g.Expect(EncodeSSE(&buf, test.event, test.data)).To(Succeed())
			g.Expect(buf.String()).To(Equal(test.expected))
		})
	}
}

func TestEncodeSSE_UnmarshalableData(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var buf bytes.Buffer
	g.Expect(EncodeSSE(&buf, "", func() {})).NotTo(Succeed())
	g.Expect(buf.Len()).To(BeZero())
}

func TestEncodeSSEDone(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var buf strings.Builder
	g.Expect(EncodeSSEDone(&buf)).To(Succeed())
	g.Expect(buf.String()).To(Equal("data: [DONE]\n\n"))
}
