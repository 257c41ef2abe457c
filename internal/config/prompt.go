package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptCredentials asks for the Flickr API key and secret and stores them
// in s. The secret is read without echo when in is a terminal.
//
// Empty answers keep the current values.
func (s *Settings) PromptCredentials(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Flickr API key: ")
	key, err := readLine(reader)
	if err != nil {
		return fmt.Errorf("read api key: %w", err)
	}

	fmt.Fprint(out, "Flickr API secret: ")
	var secret string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("read api secret: %w", err)
		}
		secret = strings.TrimSpace(string(b))
	} else {
		secret, err = readLine(reader)
		if err != nil {
			return fmt.Errorf("read api secret: %w", err)
		}
	}

	if key != "" {
		s.APIKey = key
	}
	if secret != "" {
		s.APISecret = secret
	}
	if !s.HasCredentials() {
		return ErrMissingCredentials
	}
	return nil
}

// readLine returns the next line without its terminator. A final line
// without newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
