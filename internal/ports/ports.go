// Package ports supplies the two scheduler port numbers written into the
// global scheduler configuration. The scaffold asks a Provider only when that
// file does not exist yet, so interactive input is confined to first-time
// setup on a machine.
package ports

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/forg-labs/forg/internal/render"
	"golang.org/x/term"
)

// Provider returns the ports to embed in the scheduler configuration.
type Provider interface {
	Ports(ctx context.Context) (render.SchedulerParams, error)
}

// Static returns fixed values. Empty fields fall back to the defaults.
type Static struct {
	WebServerPort string
	LogServerPort string
}

// Ports implements Provider.
func (s Static) Ports(_ context.Context) (render.SchedulerParams, error) {
	return render.SchedulerParams{
		WebServerPort: orDefault(s.WebServerPort, render.DefaultWebServerPort),
		LogServerPort: orDefault(s.LogServerPort, render.DefaultLogServerPort),
	}, nil
}

// Interactive asks on Out and reads one line per port from In.
type Interactive struct {
	In  io.Reader
	Out io.Writer
}

// Ports implements Provider. The entered text is embedded as typed; only
// surrounding whitespace is trimmed and an empty answer takes the default.
func (p Interactive) Ports(ctx context.Context) (render.SchedulerParams, error) {
	reader := bufio.NewReader(p.In)

	web, err := ask(ctx, reader, p.Out, "Airflow webserver port", render.DefaultWebServerPort)
	if err != nil {
		return render.SchedulerParams{}, err
	}
	logPort, err := ask(ctx, reader, p.Out, "Airflow log server port", render.DefaultLogServerPort)
	if err != nil {
		return render.SchedulerParams{}, err
	}
	return render.SchedulerParams{WebServerPort: web, LogServerPort: logPort}, nil
}

// ForInput returns an Interactive provider reading from in. Prompts are only
// written when in is a terminal; piped answers are read silently.
func ForInput(in *os.File, out io.Writer) Interactive {
	if !term.IsTerminal(int(in.Fd())) {
		out = io.Discard
	}
	return Interactive{In: in, Out: out}
}

type readResult struct {
	line string
	err  error
}

// ask returns as soon as ctx is cancelled, even while a read is blocked. The
// pending read is abandoned; its result is dropped.
func ask(ctx context.Context, reader *bufio.Reader, w io.Writer, label, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if w != nil {
		fmt.Fprintf(w, "%s [%s]: ", label, def)
	}

	done := make(chan readResult, 1)
	go func() {
		line, err := reader.ReadString('\n')
		done <- readResult{line: line, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-done:
	}
	if res.err != nil && !(errors.Is(res.err, io.EOF) && res.line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), res.err)
	}
	return orDefault(strings.TrimSpace(res.line), def), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
