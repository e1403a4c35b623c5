package block

import (
	"fmt"
	"html/template"
	"maps"
)

// DefaultSlot is the data key the captured body of a component is stored under.
const DefaultSlot = "slot"

type componentFrame struct {
	view  string
	data  map[string]any
	slots []string
}

// Component opens a component. Output written until EndComponent becomes
// the default slot, and named slots opened in between are collected into the
// data the component view is rendered with.
func (s *Session) Component(view string, data map[string]any) {
	frameData := make(map[string]any, len(data)+1)
	maps.Copy(frameData, data)
	s.components = append(s.components, &componentFrame{view: view, data: frameData})
	s.out.push()
}

func (s *Session) currentComponent() (*componentFrame, error) {
	if len(s.components) == 0 {
		return nil, ErrNoActiveComponent
	}
	return s.components[len(s.components)-1], nil
}

// Slot opens a named slot of the current component.
func (s *Session) Slot(name string) error {
	c, err := s.currentComponent()
	if err != nil {
		return err
	}
	c.slots = append(c.slots, name)
	s.out.push()
	return nil
}

// EndSlot closes the current slot and stores its content under the slot name.
func (s *Session) EndSlot() error {
	c, err := s.currentComponent()
	if err != nil {
		return err
	}
	if len(c.slots) == 0 {
		return ErrNoActiveSlot
	}
	name := c.slots[len(c.slots)-1]
	c.slots = c.slots[:len(c.slots)-1]

	content, err := s.out.pop()
	if err != nil {
		return err
	}
	c.data[name] = template.HTML(content)
	return nil
}

// EndComponent closes the current component and inserts its view with the
// collected slots into the caller's output.
func (s *Session) EndComponent() error {
	c, err := s.currentComponent()
	if err != nil {
		return err
	}
	if len(c.slots) > 0 {
		return fmt.Errorf("%w: slot %q of component %q is still open", ErrNoActiveSlot, c.slots[len(c.slots)-1], c.view)
	}
	s.components = s.components[:len(s.components)-1]

	content, err := s.out.pop()
	if err != nil {
		return err
	}
	c.data[DefaultSlot] = template.HTML(content)
	return s.Insert(c.view, c.data)
}
