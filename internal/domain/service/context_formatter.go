// Package service holds pure domain logic shared by the application layer.
package service

import (
	"codycli/internal/domain/entity"
	"strconv"
	"strings"
)

// Tags delimiting the context block injected into the prompt.
const (
	tagContextOpen  = "<context>"
	tagContextClose = "</context>"
	tagItemOpen     = "<item>"
	tagItemClose    = "</item>"
	tagFileOpen     = "<file>"
	tagFileClose    = "</file>"
	tagChunkOpen    = "<chunk>"
	tagChunkClose   = "</chunk>"
)

// FormatContext renders chunks, in order, into the delimited block embedded in
// the prompt. Paths and content are inserted verbatim without escaping.
func FormatContext(chunks []entity.ContextChunk) string {
	parts := make([]string, 0, 2+4*len(chunks))
	parts = append(parts, tagContextOpen)
	for _, chunk := range chunks {
		parts = append(parts,
			tagItemOpen,
			tagFileOpen+chunk.Path+":"+strconv.Itoa(chunk.StartLine)+"-"+strconv.Itoa(chunk.EndLine)+tagFileClose,
			tagChunkOpen+chunk.Content+tagChunkClose,
			tagItemClose,
		)
	}
	parts = append(parts, tagContextClose)

	return strings.Join(parts, "\n")
}
