package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/tuneinsight/hecalc/reduce"
)

// ErrCancelled is returned by a [Prompter] when the user cancels a prompt or
// the input ends. It terminates the loop cleanly.
var ErrCancelled = errors.New("cancelled")

// Prompter reads the user choices of one iteration.
type Prompter interface {
	// SelectOperation shows the operation menu. An invalid selection returns
	// ErrCancelled.
	SelectOperation(ops []reduce.Operation) (reduce.Operation, error)
	// ReadInt reads an integer accepted by validate, which may be nil.
	ReadInt(label string, validate func(int64) error) (int64, error)
	// Confirm asks a yes/no question.
	Confirm(label string) (bool, error)
}

// LinePrompter is a [Prompter] over line-oriented streams.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a new LinePrompter reading from in and writing the
// prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// SelectOperation accepts the menu index or the operation name or symbol.
func (p *LinePrompter) SelectOperation(ops []reduce.Operation) (reduce.Operation, error) {

	fmt.Fprintln(p.out, "Select an operation:")
	for i, op := range ops {
		fmt.Fprintf(p.out, "  %d) %s (%s)\n", i+1, op, op.Symbol())
	}
	fmt.Fprint(p.out, "> ")

	line, err := p.readLine()
	if err != nil {
		return 0, err
	}

	if i, err := strconv.Atoi(line); err == nil {
		if i < 1 || i > len(ops) {
			return 0, fmt.Errorf("%w: no operation #%d", ErrCancelled, i)
		}
		return ops[i-1], nil
	}

	op, err := reduce.ParseOperation(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	for _, candidate := range ops {
		if candidate == op {
			return op, nil
		}
	}

	return 0, fmt.Errorf("%w: %s is not offered", ErrCancelled, op)
}

// ReadInt prompts until a valid integer is entered.
func (p *LinePrompter) ReadInt(label string, validate func(int64) error) (int64, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)

		line, err := p.readLine()
		if err != nil {
			return 0, err
		}

		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Fprintf(p.out, "%q is not an integer, try again\n", line)
			continue
		}

		if validate != nil {
			if err := validate(v); err != nil {
				fmt.Fprintf(p.out, "%v, try again\n", err)
				continue
			}
		}

		return v, nil
	}
}

// Confirm returns true on "y" or "yes".
func (p *LinePrompter) Confirm(label string) (bool, error) {

	fmt.Fprintf(p.out, "%s [y/N]: ", label)

	line, err := p.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// TerminalPrompter is a [Prompter] rendering interactive widgets on a
// terminal.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter on the process stdin
// and stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
		return ErrCancelled
	}
	return err
}

func (TerminalPrompter) SelectOperation(ops []reduce.Operation) (reduce.Operation, error) {

	items := make([]string, len(ops))
	for i, op := range ops {
		items[i] = fmt.Sprintf("%s (%s)", op, op.Symbol())
	}

	sel := promptui.Select{
		Label: "Select an operation",
		Items: items,
	}

	i, _, err := sel.Run()
	if err != nil {
		return 0, promptErr(err)
	}

	return ops[i], nil
}

func (TerminalPrompter) ReadInt(label string, validate func(int64) error) (int64, error) {

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return fmt.Errorf("not an integer")
			}
			if validate != nil {
				return validate(v)
			}
			return nil
		},
	}

	s, err := prompt.Run()
	if err != nil {
		return 0, promptErr(err)
	}

	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func (TerminalPrompter) Confirm(label string) (bool, error) {

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, promptErr(err)
	}

	return true, nil
}
