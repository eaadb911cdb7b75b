package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/ui"
)

// Keep is the numeric answer meaning "leave this field as it is".
const Keep = -1

var errBlank = errors.New("a value is required")

// Prompter reads one answer per line.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

// Line prints prompt and returns the next line, trimmed. It returns io.EOF
// once input is exhausted.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, "  "+prompt)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// ask repeats prompt until parse accepts the answer.
func ask[V any](p *Prompter, prompt string, parse func(string) (V, error)) (V, error) {
	for {
		s, err := p.Line(prompt)
		if err != nil {
			var zero V
			return zero, err
		}
		v, err := parse(s)
		if err == nil {
			return v, nil
		}
		ui.Warn(p.out, err.Error())
	}
}

// askOptional is ask with a blank answer meaning nil.
func askOptional[V any](p *Prompter, prompt string, parse func(string) (V, error)) (*V, error) {
	return ask(p, prompt, func(s string) (*V, error) {
		if s == "" {
			return nil, nil
		}
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}

// askOptionalNumber is ask with Keep meaning nil.
func askOptionalNumber[V int | float64](p *Prompter, prompt string, parse func(string) (V, error)) (*V, error) {
	return ask(p, prompt, func(s string) (*V, error) {
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		if v == Keep {
			return nil, nil
		}
		return &v, nil
	})
}

func (p *Prompter) AskString(prompt string) (string, error) { return ask(p, prompt, ParseText) }
func (p *Prompter) AskInt(prompt string) (int, error)       { return ask(p, prompt, ParseInt) }
func (p *Prompter) AskFloat(prompt string) (float64, error) { return ask(p, prompt, ParseFloat) }
func (p *Prompter) AskDate(prompt string) (model.Date, error) {
	return ask(p, prompt, model.ParseDate)
}
func (p *Prompter) AskPriority(prompt string) (model.Priority, error) {
	return ask(p, prompt, model.ParsePriority)
}
func (p *Prompter) Confirm(prompt string) (bool, error) { return ask(p, prompt, ParseYesNo) }

func (p *Prompter) OptionalString(prompt string) (*string, error) {
	return askOptional(p, prompt, ParseText)
}
func (p *Prompter) OptionalDate(prompt string) (*model.Date, error) {
	return askOptional(p, prompt, model.ParseDate)
}
func (p *Prompter) OptionalPriority(prompt string) (*model.Priority, error) {
	return askOptional(p, prompt, model.ParsePriority)
}
func (p *Prompter) OptionalBool(prompt string) (*bool, error) {
	return askOptional(p, prompt, ParseYesNo)
}
func (p *Prompter) OptionalInt(prompt string) (*int, error) {
	return askOptionalNumber(p, prompt, ParseInt)
}
func (p *Prompter) OptionalFloat(prompt string) (*float64, error) {
	return askOptionalNumber(p, prompt, ParseFloat)
}

func ParseText(s string) (string, error) {
	if s = strings.TrimSpace(s); s == "" {
		return "", errBlank
	}
	return s, nil
}

func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("please enter a whole number")
	}
	return n, nil
}

func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("please enter a valid number")
	}
	return f, nil
}

func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, errors.New("please answer yes or no")
}
