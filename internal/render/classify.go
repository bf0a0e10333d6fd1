// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"unicode/utf16"

	"github.com/jeranaias/neurogo-tui/internal/model"
)

// blockThreshold is the length past which multi-line content is a block.
// Length is counted in UTF-16 code units, so a rune outside the BMP (most
// emoji) counts twice.
const blockThreshold = 100

// codeIndicators are matched case-insensitively anywhere in the content.
var codeIndicators = []string{
	"func ",
	"package ",
	"import ",
	"class ",
	"def ",
	"function",
	"{",
	"}",
	"```",
	"http://",
	"https://",
	"#!/",
	"select",
	"from",
	"curl",
	"post",
	"get",
}

// Classify decides how content is laid out.
func Classify(content string) model.Kind {
	lower := strings.ToLower(content)
	for _, ind := range codeIndicators {
		if strings.Contains(lower, ind) {
			return model.KindBlock
		}
	}
	if strings.Contains(content, "\n") && utf16Len(content) > blockThreshold {
		return model.KindBlock
	}
	return model.KindPlain
}

// Classified returns m with Kind set from its content.
func Classified(m model.Message) model.Message {
	m.Kind = Classify(m.Content)
	return m
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := len(utf16.Encode([]rune{r})); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
