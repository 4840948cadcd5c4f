// Package clipboard is the external text buffer the tool reads captures from
// and writes snippets back to.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Buffer is the read/write text capability the interaction loop depends on.
type Buffer interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System returns a Buffer backed by the OS clipboard.
func System() Buffer {
	return systemBuffer{}
}

type systemBuffer struct{}

func (systemBuffer) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (systemBuffer) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is an in-process Buffer for tests and piped input.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
