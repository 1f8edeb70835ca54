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


package ingestion

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goldarch/ragkit/core"
)

// Extraction is the outcome of pulling text out of a document file.
type Extraction struct {
	Content   string
	PageCount int
	WordCount int
}

// TextExtractor pulls plain text out of a document format. Implementations
// for binary formats (PDF, DOCX) are registered by the caller.
type TextExtractor interface {
	Extract(data []byte, format core.DocumentFormat) (*Extraction, error)
}

// PlainTextExtractor handles txt, md and html content as UTF-8 text.
type PlainTextExtractor struct{}

// Extract normalizes the bytes into cleaned text with a word count.
func (PlainTextExtractor) Extract(data []byte, format core.DocumentFormat) (*Extraction, error) {
	content := CleanText(string(data))
	if content == "" {
		return nil, core.ValidationError("no text content extracted")
	}
	return &Extraction{
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}, nil
}

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text: line endings become \n, runs of
// spaces and tabs collapse to one space, and blank-line runs collapse to a
// single paragraph break so paragraph chunking still sees boundaries.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

var pdfSignature = []byte("%PDF-")

// zipSignature marks ZIP containers; DOCX files are ZIP-based.
var zipSignature = []byte{0x50, 0x4b, 0x03, 0x04}

// DetectFormat identifies a document format from its filename extension,
// falling back to content signatures and finally to plain text.
func DetectFormat(filename string, data []byte) core.DocumentFormat {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return core.FormatPDF
	case "docx", "doc":
		return core.FormatDOCX
	case "txt":
		return core.FormatTXT
	case "md", "markdown":
		return core.FormatMD
	case "html", "htm":
		return core.FormatHTML
	}

	if bytes.HasPrefix(data, pdfSignature) {
		return core.FormatPDF
	}
	if bytes.HasPrefix(data, zipSignature) {
		return core.FormatDOCX
	}
	return core.FormatTXT
}
