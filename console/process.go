// Package console runs developer commands typed as "CATEGORY name args...".
package console

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Category groups commands. The first word of a command line selects it.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryAudio
	CategoryConsole
	CategoryDebug
	CategoryGfx
	CategorySystem
)

var categoryNames = map[Category]string{
	CategoryAudio:   "AUDIO",
	CategoryConsole: "CONSOLE",
	CategoryDebug:   "DEBUG",
	CategoryGfx:     "GFX",
	CategorySystem:  "SYSTEM",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "NONE"
}

// ParseCategory reads a category name, ignoring case.
func ParseCategory(s string) Category {
	up := strings.ToUpper(s)
	for c, n := range categoryNames {
		if n == up {
			return c
		}
	}
	return CategoryNone
}

// Replies to malformed lines.
const (
	ReplyEmptyCommand    = "Empty command"
	ReplyUnknownCategory = "Unknow category"
	ReplyEmptyName       = "Empty command name"
	ReplyUnknownCommand  = "Unknow command"
)

// ErrDuplicateCommand is returned when registering a name twice in one
// category.
var ErrDuplicateCommand = errors.New("console: command already registered")

// Command is a console command.
type Command interface {
	Category() Category
	Name() string
	Description() string
	// Execute runs the command and returns the lines to show.
	Execute(args []string) []string
}

type funcCommand struct {
	category    Category
	name        string
	description string
	fn          func(args []string) []string
}

func (c funcCommand) Category() Category             { return c.category }
func (c funcCommand) Name() string                   { return c.name }
func (c funcCommand) Description() string            { return c.description }
func (c funcCommand) Execute(args []string) []string { return c.fn(args) }

// Func adapts fn to a Command.
func Func(category Category, name, description string, fn func(args []string) []string) Command {
	return funcCommand{category: category, name: name, description: description, fn: fn}
}

// Option configures a Process.
type Option func(*Process)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Process) { p.logger = l }
}

// Process dispatches command lines to registered commands. It starts with
// the CONSOLE help, history and clear commands.
type Process struct {
	history  History
	commands []Command
	logger   *slog.Logger
}

// NewProcess creates a process with the built-in commands.
func NewProcess(opts ...Option) *Process {
	p := &Process{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.commands = append(p.commands,
		Func(CategoryConsole, "help", "List the commands", p.help),
		Func(CategoryConsole, "history", "Show the entered lines", func([]string) []string { return p.history.Lines() }),
		Func(CategoryConsole, "clear", "Forget the entered lines", func([]string) []string {
			p.history.Clear()
			return nil
		}),
	)
	return p
}

// Register adds c.
func (p *Process) Register(c Command) error {
	if p.find(c.Category(), c.Name()) != nil {
		return fmt.Errorf("%w: %s %s", ErrDuplicateCommand, c.Category(), c.Name())
	}
	p.commands = append(p.commands, c)
	return nil
}

// History returns the line history.
func (p *Process) History() *History { return &p.history }

// Handle records line in the history, runs the command it names and returns
// the command's reply.
func (p *Process) Handle(line string) []string {
	p.history.Add(line)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return []string{ReplyEmptyCommand}
	}
	category := ParseCategory(fields[0])
	if category == CategoryNone {
		return []string{ReplyUnknownCategory}
	}
	if len(fields) == 1 {
		return []string{ReplyEmptyName}
	}
	c := p.find(category, fields[1])
	if c == nil {
		return []string{ReplyUnknownCommand}
	}
	p.logger.Debug("console command", "category", category, "name", c.Name(), "args", len(fields)-2)
	return c.Execute(fields[2:])
}

func (p *Process) find(category Category, name string) Command {
	for _, c := range p.commands {
		if c.Category() == category && strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return nil
}

func (p *Process) help([]string) []string {
	cmds := append([]Command(nil), p.commands...)
	sort.SliceStable(cmds, func(i, j int) bool {
		if cmds[i].Category() != cmds[j].Category() {
			return cmds[i].Category() < cmds[j].Category()
		}
		return cmds[i].Name() < cmds[j].Name()
	})
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, fmt.Sprintf("%s %s - %s", c.Category(), c.Name(), c.Description()))
	}
	return out
}
