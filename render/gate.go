package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// WaitForKey prints prompt and blocks until the operator responds. On a
// terminal any single key will do; otherwise a full line is read. End of
// input counts as a response so unattended runs are not stuck forever.
func WaitForKey(in *os.File, out io.Writer, prompt string) error {
	fmt.Fprint(out, prompt)

	if term, err := NewTerminal(in); err == nil {
		if err := term.EnterRawMode(); err == nil {
			defer term.RestoreMode()
			var b [1]byte
			_, err := in.Read(b[:])
			fmt.Fprintln(out)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
	}

	return waitForLine(in)
}

func waitForLine(r io.Reader) error {
	_, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
