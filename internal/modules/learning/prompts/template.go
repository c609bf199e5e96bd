package prompts

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Spec declares one prompt. System and User are text/template sources over Input.
// Require names the Input fields a caller must set.
type Spec struct {
	Name    PromptName
	Version int
	System  string
	User    string
	Require []string
}

type compiled struct {
	spec     Spec
	tmpl     *template.Template
	validate Validator
}

// compile parses both parts and dry-runs them on a zero Input so a misspelled
// field fails at load instead of at first use.
func compile(s Spec) (*compiled, error) {
	if strings.TrimSpace(string(s.Name)) == "" || s.Version <= 0 {
		return nil, fmt.Errorf("prompt %q: name and positive version required", s.Name)
	}
	root := template.New(string(s.Name))
	for part, src := range map[string]string{"system": s.System, "user": s.User} {
		if _, err := root.New(part).Parse(strings.TrimSpace(src)); err != nil {
			return nil, fmt.Errorf("prompt %s: %w", s.Name, err)
		}
	}
	c := &compiled{spec: s, tmpl: root}
	if len(s.Require) > 0 {
		c.validate = Require(s.Require...)
	}
	if _, err := c.render(Input{}); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *compiled) render(in Input) (Prompt, error) {
	var sys, user strings.Builder
	if err := c.tmpl.ExecuteTemplate(&sys, "system", in); err != nil {
		return Prompt{}, fmt.Errorf("prompt %s: %w", c.spec.Name, err)
	}
	if err := c.tmpl.ExecuteTemplate(&user, "user", in); err != nil {
		return Prompt{}, fmt.Errorf("prompt %s: %w", c.spec.Name, err)
	}
	return Prompt{
		Name:    string(c.spec.Name),
		Version: c.spec.Version,
		System:  strings.TrimSpace(sys.String()),
		User:    strings.TrimSpace(user.String()),
	}, nil
}

var (
	loadOnce sync.Once
	loaded   map[PromptName]*compiled
	loadErr  error
)

func load() {
	loaded = make(map[PromptName]*compiled)
	for _, s := range specs() {
		c, err := compile(s)
		if err != nil {
			loadErr = err
			return
		}
		loaded[s.Name] = c
	}
}

// Build validates in against the named prompt and renders it.
func Build(name PromptName, in Input) (Prompt, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Prompt{}, loadErr
	}
	c, ok := loaded[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt %q", name)
	}
	if c.validate != nil {
		if err := c.validate(in); err != nil {
			return Prompt{}, fmt.Errorf("prompt %s: %w", name, err)
		}
	}
	return c.render(in)
}
