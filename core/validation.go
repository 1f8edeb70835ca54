// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "strings"

const (
	// MinQuestionLength is the shortest question accepted by the RAG engine.
	MinQuestionLength = 3
	// MaxQuestionLength is the longest question accepted by the RAG engine.
	MaxQuestionLength = 1000
)

// ValidateQuestion validates a user question before any network call.
//
// Validation rules:
//   - must not be empty or whitespace-only
//   - must be at least MinQuestionLength characters
//   - must be at most MaxQuestionLength characters
func ValidateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return ValidationError("question is empty")
	}
	if len(trimmed) < MinQuestionLength {
		return ValidationError("question is too short (min %d characters)", MinQuestionLength)
	}
	if len(question) > MaxQuestionLength {
		return ValidationError("question is too long (max %d characters)", MaxQuestionLength)
	}
	return nil
}

// ValidateChunk validates a DocumentChunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - DocumentID must be set
//   - Position must be non-negative
func ValidateChunk(chunk *DocumentChunk) error {
	if chunk == nil {
		return ValidationError("chunk is nil")
	}
	if chunk.Content == "" {
		return ValidationError("chunk content is empty")
	}
	if chunk.DocumentID == "" {
		return ValidationError("chunk has no document id")
	}
	if chunk.Position < 0 {
		return ValidationError("chunk position %d is negative", chunk.Position)
	}
	return nil
}

// SupportedFormat reports whether a document format can be ingested.
func SupportedFormat(format DocumentFormat) bool {
	switch format {
	case FormatPDF, FormatDOCX, FormatTXT, FormatMD, FormatHTML:
		return true
	}
	return false
}
