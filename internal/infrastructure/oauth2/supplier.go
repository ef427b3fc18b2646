package oauth2

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptSupplier reads the callback URL from an interactive console.
type PromptSupplier struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptSupplier(in io.Reader, out io.Writer) *PromptSupplier {
	return &PromptSupplier{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *PromptSupplier) AuthorizationResponse(_ context.Context, authorizationURL string) (string, error) {
	fmt.Fprintln(p.out, "Visit this URL to authorize:", authorizationURL)
	fmt.Fprint(p.out, "Enter the full callback URL: ")

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read callback URL: %w", err)
	}

	return strings.TrimSpace(line), nil
}
