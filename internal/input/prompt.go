package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrPromptCancelled is returned when the user leaves the prompt with Esc or Ctrl+C.
var ErrPromptCancelled = errors.New("prompt cancelled")

// NewPrompter picks an interactive text field when in is a terminal and a
// plain line reader otherwise (pipes, redirects, tests).
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if in == nil {
		return &LinePrompter{Out: out}
	}
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &TeaPrompter{In: in, Out: out}
	}
	return &LinePrompter{In: in, Out: out}
}

// LinePrompter writes the label and reads a single line.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// Prompt implements Prompter.
func (p *LinePrompter) Prompt(label string) (string, error) {
	if p.In == nil {
		return "", io.EOF
	}
	if p.Out != nil {
		_, _ = fmt.Fprint(p.Out, label)
	}
	return p.ReadLine()
}

// ReadLine reads the next line without writing a label. It shares the buffer
// used by Prompt, so input already read ahead is not lost.
func (p *LinePrompter) ReadLine() (string, error) {
	if p.In == nil {
		return "", io.EOF
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TeaPrompter runs a one-field Bubble Tea program inline (no alt screen).
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

// Prompt implements Prompter.
func (p *TeaPrompter) Prompt(label string) (string, error) {
	opts := []tea.ProgramOption{}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(newPromptModel(label), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m, ok := final.(promptModel)
	if !ok {
		return "", fmt.Errorf("run prompt: unexpected model %T", final)
	}
	if m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.value, nil
}

type promptKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

func defaultPromptKeys() promptKeys {
	return promptKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Upload"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

type promptModel struct {
	input     textinput.Model
	keys      promptKeys
	label     string
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(label string) promptModel {
	ti := textinput.New()
	ti.Prompt = label
	ti.Placeholder = "clip.mp4"
	ti.CharLimit = 4096
	ti.Focus()

	return promptModel{
		input: ti,
		keys:  defaultPromptKeys(),
		label: label,
	}
}

// Init implements tea.Model.
func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m promptModel) View() string {
	switch {
	case m.done:
		return m.label + m.value + "\n"
	case m.cancelled:
		return m.label + "\n"
	}
	return m.input.View() + "\n"
}
