package block

import (
	"html/template"
	"strings"
)

// ParentPlaceholder marks where previously accumulated content of a block is
// spliced in when the block is read.
const ParentPlaceholder = "<!--block::parent-->"

// Mode controls how a section composes with other layers of the same block.
type Mode int

const (
	// Normal sections keep only their own content unless they print Parent.
	Normal Mode = iota
	// Append sections start with the parent placeholder, so inherited
	// content comes first.
	Append
	// Prepend sections end with the parent placeholder, so inherited
	// content comes last.
	Prepend
)

func (m Mode) String() string {
	switch m {
	case Append:
		return "append"
	case Prepend:
		return "prepend"
	default:
		return "normal"
	}
}

type sectionFrame struct {
	name string
	mode Mode
}

// blockStore keeps every fragment ever closed under a block name, oldest first.
type blockStore map[string][]string

func (b blockStore) add(name, content string) {
	b[name] = append(b[name], content)
}

// resolve folds the fragments of name into one string. The most recent
// fragment is the base; walking back to the oldest, each fragment gets the
// current base substituted for its placeholders and becomes the new base.
func (b blockStore) resolve(name string) string {
	stack := b[name]
	if len(stack) == 0 {
		return ""
	}
	current := stack[len(stack)-1]
	for i := len(stack) - 2; i >= 0; i-- {
		current = strings.ReplaceAll(stack[i], ParentPlaceholder, current)
	}
	return current
}

// Section opens a named content region. Everything written until the
// matching Stop is captured as one fragment of the block.
func (s *Session) Section(name string, mode ...Mode) {
	m := Normal
	if len(mode) > 0 {
		m = mode[0]
	}
	s.sections = append(s.sections, sectionFrame{name: name, mode: m})
	s.out.push()
	if m == Append {
		_, _ = s.out.WriteString(ParentPlaceholder)
	}
}

// Append opens a section whose inherited content is placed before its own.
func (s *Session) Append(name string) {
	s.Section(name, Append)
}

// Prepend opens a section whose inherited content is placed after its own.
func (s *Session) Prepend(name string) {
	s.Section(name, Prepend)
}

// Stop closes the most recently opened section and stores its content.
func (s *Session) Stop() error {
	_, err := s.stop()
	return err
}

func (s *Session) stop() (string, error) {
	if len(s.sections) == 0 {
		return "", ErrStackUnderflow
	}
	frame := s.sections[len(s.sections)-1]
	s.sections = s.sections[:len(s.sections)-1]

	if frame.mode == Prepend {
		_, _ = s.out.WriteString(ParentPlaceholder)
	}
	content, err := s.out.pop()
	if err != nil {
		return "", err
	}
	s.blocks.add(frame.name, content)
	return frame.name, nil
}

// Show closes the current section and writes the composed block in its place.
func (s *Session) Show() error {
	name, err := s.stop()
	if err != nil {
		return err
	}
	_, err = s.out.WriteString(s.blocks.resolve(name))
	return err
}

// Get returns the composed content of a block, or "" when nothing was
// captured under that name.
func (s *Session) Get(name string) template.HTML {
	return template.HTML(s.blocks.resolve(name))
}

// HasBlock reports whether any fragment was captured under name.
func (s *Session) HasBlock(name string) bool {
	return len(s.blocks[name]) > 0
}

// Parent returns the placeholder token for manual placement in a section.
func (s *Session) Parent() template.HTML {
	return ParentPlaceholder
}
