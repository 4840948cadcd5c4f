package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ConsolePrompter reads answers line by line from an input stream, echoing
// the prompt to an output stream first.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *ConsolePrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// StdinIsTerminal reports whether stdin is an interactive terminal. The edit
// loop refuses to run against piped input.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ScriptedPrompter feeds a fixed sequence of answers; tests drive the state
// machine with it. Reading past the script returns io.EOF.
type ScriptedPrompter struct {
	Answers []string
	Prompts []string
	next    int
}

func (p *ScriptedPrompter) ReadLine(prompt string) (string, error) {
	p.Prompts = append(p.Prompts, prompt)
	if p.next >= len(p.Answers) {
		return "", io.EOF
	}
	answer := p.Answers[p.next]
	p.next++
	return answer, nil
}
