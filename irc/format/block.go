package ircf

import "fmt"

// A Block is a run of text that shares the same IRC formatting.
type Block struct {
	Bold, Italic, Underline, Strikethrough, Monospace, Reverse bool
	Color, Highlight                                           int
	Text                                                       string
}

// Empty is an unstyled block without text.
var Empty = NewBlock("")

// NewBlock returns a block with the given text and style codes toggled on.
func NewBlock(text string, codes ...rune) Block {
	return NewColorBlock(text, -1, -1, codes...)
}

// NewColorBlock is NewBlock with a foreground and background colour.
// Use -1 for an unset colour.
func NewColorBlock(text string, color, highlight int, codes ...rune) (b Block) {
	b.Text = text
	b.Color = color
	b.Highlight = highlight

	for _, code := range codes {
		b.SetField(code, true)
	}

	return
}

// IsPlain reports whether the block carries no formatting at all.
func (b Block) IsPlain() bool {
	return !b.Bold && !b.Italic && !b.Underline && !b.Strikethrough &&
		!b.Monospace && !b.Reverse && b.Color == -1 && b.Highlight == -1
}

func (b *Block) field(code rune) *bool {
	switch code {
	case CharBold:
		return &b.Bold
	case CharItalics:
		return &b.Italic
	case CharUnderline:
		return &b.Underline
	case CharStrikethrough:
		return &b.Strikethrough
	case CharMonospace:
		return &b.Monospace
	case CharReverseColor:
		return &b.Reverse
	}
	return nil
}

// SetField sets the style toggled by the given control code.
func (b *Block) SetField(code rune, val bool) {
	if f := b.field(code); f != nil {
		*f = val
		return
	}
	panic(fmt.Sprintf(`unknown code \x%x`, code))
}

// GetField returns the style toggled by the given control code.
func (b Block) GetField(code rune) bool {
	if f := b.field(code); f != nil {
		return *f
	}
	panic(fmt.Sprintf(`unknown code \x%x`, code))
}
