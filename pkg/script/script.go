// Package script loads and plays YAML edit scripts.
//
// A script names an initial document and a list of steps. Each step applies
// one or more edits in order, reparses the document incrementally, and may
// state the text the document must have afterwards:
//
//	path: example.c
//	initial: |
//	  int x = 1;
//	steps:
//	  - name: widen constant
//	    edits:
//	      - {start: 8, end: 9, text: "12"}
//	    expect: |
//	      int x = 12;
//	  - name: rename
//	    edits:
//	      - {find: "x", text: "y"}
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocst/pkg/source"
)

// ErrNotFound is returned when a find edit does not match the document.
var ErrNotFound = errors.New("find text not found")

// Script is a document plus the edits to play against it.
type Script struct {
	// Path names the document in output. It need not exist.
	Path string `yaml:"path,omitempty"`

	// Initial is the starting text of the document.
	Initial string `yaml:"initial"`

	// Steps are played in order.
	Steps []Step `yaml:"steps"`
}

// Step is one batch of edits followed by a reparse.
type Step struct {
	Name string `yaml:"name,omitempty"`

	// Edits are applied one after another, each against the text left by
	// the previous edit.
	Edits []EditSpec `yaml:"edits"`

	// Expect, when set, is the text the document must have after the step.
	Expect *string `yaml:"expect,omitempty"`
}

// EditSpec describes a single edit either by byte offsets or by locating
// text in the current document.
type EditSpec struct {
	Start *int `yaml:"start,omitempty"`
	End   *int `yaml:"end,omitempty"`

	// Find replaces the Nth occurrence (1-based, default 1) of this text.
	Find       string `yaml:"find,omitempty"`
	Occurrence int    `yaml:"occurrence,omitempty"`

	// Text is inserted in place of the selected range.
	Text string `yaml:"text"`
}

// Label returns the step's name, or its 1-based position when unnamed.
func (s Step) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", index+1)
}

// Load decodes a script from r. Unknown fields are rejected.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty script")
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadBytes decodes a script from data.
func LoadBytes(data []byte) (*Script, error) {
	return Load(bytes.NewReader(data))
}

// Validate checks the parts of the script that do not depend on the text.
func (s *Script) Validate() error {
	var errs []error
	for i, step := range s.Steps {
		if len(step.Edits) == 0 {
			errs = append(errs, fmt.Errorf("%s: no edits", step.Label(i)))
		}
		for j, e := range step.Edits {
			if err := e.validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: edit %d: %w", step.Label(i), j+1, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (e EditSpec) validate() error {
	switch {
	case e.Find != "" && (e.Start != nil || e.End != nil):
		return errors.New("find cannot be combined with start or end")
	case e.Find == "" && e.Start == nil:
		return errors.New("either start or find is required")
	case e.Occurrence < 0:
		return errors.New("occurrence must be positive")
	case e.Start != nil && e.End != nil && *e.End < *e.Start:
		return fmt.Errorf("end %d is before start %d", *e.End, *e.Start)
	}
	return nil
}

// Resolve turns e into a concrete edit against text. A missing end
// makes the edit a pure insertion.
func (e EditSpec) Resolve(text string) (source.Edit, error) {
	if err := e.validate(); err != nil {
		return source.Edit{}, err
	}
	if e.Find == "" {
		end := *e.Start
		if e.End != nil {
			end = *e.End
		}
		edit := source.Edit{StartOffset: *e.Start, EndOffset: end, NewText: e.Text}
		if err := source.ValidateEdits([]source.Edit{edit}, len(text)); err != nil {
			return source.Edit{}, fmt.Errorf("resolve edit: %w", err)
		}
		return edit, nil
	}

	n := max(e.Occurrence, 1)
	from := 0
	for {
		idx := strings.Index(text[from:], e.Find)
		if idx < 0 {
			return source.Edit{}, fmt.Errorf("%w: %q (occurrence %d)", ErrNotFound, e.Find, max(e.Occurrence, 1))
		}
		start := from + idx
		n--
		if n == 0 {
			return source.Edit{StartOffset: start, EndOffset: start + len(e.Find), NewText: e.Text}, nil
		}
		from = start + 1
	}
}
