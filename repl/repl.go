// Package repl implements the interactive qparse shell.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"
)

const continuationPrompt = ".. "

var log = commonlog.GetLogger("qparse.repl")

// Start runs the shell on the terminal until exit, quit or Ctrl+D.
// historyFile may be empty to disable history.
func Start(out io.Writer, prompt, historyFile string, opts Options) error {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(Complete)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				log.Warningf("read history %s: %s", historyFile, err)
			}
			f.Close()
		}
		defer func() {
			f, err := os.Create(historyFile)
			if err != nil {
				log.Warningf("write history %s: %s", historyFile, err)
				return
			}
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				log.Warningf("write history %s: %s", historyFile, err)
			}
		}()
	}

	session := NewSession(out, opts)
	fmt.Fprintln(out, "qparse: type ':help' for commands, 'exit' or Ctrl+D to quit")

	var buffer strings.Builder
	for {
		current := prompt
		if buffer.Len() > 0 {
			current = continuationPrompt
		}
		input, err := line.Prompt(current)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				// Ctrl+C clears buffered input
				fmt.Fprintln(out, "^C")
				buffer.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)

		full := buffer.String()
		if NeedsMoreInput(full) {
			continue
		}
		buffer.Reset()

		if strings.TrimSpace(full) != "" {
			line.AppendHistory(full)
		}
		log.Debugf("eval %q", full)
		if !session.Eval(full) {
			return nil
		}
	}
}
