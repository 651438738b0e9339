package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"audiocard-go/bus"
	"audiocard-go/errcode"
	"audiocard-go/services/audiocard"
	"audiocard-go/types"
	"audiocard-go/x/fmtx"

	"github.com/google/shlex"
	"golang.org/x/term"
)

const prompt = "audiocard> "

var errQuit = errors.New("quit")

const usage = `commands:
  open <card> <playback|capture> [format] [channels] [rate]
  close <card> <playback|capture>
  status <card>
  detach <card>
  boards
  help
  quit`

type console struct {
	conn    *bus.Connection
	out     io.Writer
	timeout time.Duration
}

func newConsole(conn *bus.Connection, out io.Writer) *console {
	return &console{conn: conn, out: out, timeout: 2 * time.Second}
}

// exec runs one command line. errQuit ends the session.
func (c *console) exec(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return errcode.Wrap(errcode.InvalidParams, "console", "bad quoting", err)
	}
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmtx.Fprint(c.out, usage+"\n")
		return nil
	case "boards":
		fmtx.Fprint(c.out, strings.Join(audiocard.Boards(), "\n")+"\n")
		return nil
	case "status", "detach":
		if len(args) != 1 {
			return errcode.Wrap(errcode.InvalidParams, cmd, "want: "+cmd+" <card>", nil)
		}
		return c.request(ctx, args[0], cmd, nil)
	case "close":
		if len(args) != 2 {
			return errcode.Wrap(errcode.InvalidParams, cmd, "want: close <card> <dir>", nil)
		}
		return c.request(ctx, args[0], cmd, types.StreamClose{Direction: args[1]})
	case "open":
		if len(args) < 2 || len(args) > 5 {
			return errcode.Wrap(errcode.InvalidParams, cmd, "want: open <card> <dir> [format] [channels] [rate]", nil)
		}
		req := types.StreamOpen{Direction: args[1]}
		if len(args) > 2 {
			req.Format = args[2]
		}
		nums := []*int{&req.Channels, &req.RateHz}
		for i, s := range args[min(len(args), 3):] {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return errcode.Wrap(errcode.InvalidParams, cmd, "not a count: "+s, nil)
			}
			*nums[i] = n
		}
		return c.request(ctx, args[0], cmd, req)
	}
	return errcode.Wrap(errcode.Unsupported, "console", "unknown command "+cmd, nil)
}

func (c *console) request(ctx context.Context, card, verb string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	msg := c.conn.NewMessage(bus.T("audio", "card", card, "control", verb), payload, false)
	reply, err := c.conn.RequestWait(ctx, msg)
	if err != nil {
		return errcode.Wrap(errcode.Timeout, verb, "no reply from "+card, err)
	}
	if e, ok := reply.Payload.(types.ErrorReply); ok {
		return errcode.Wrap(errcode.Code(e.Error), verb, card, nil)
	}
	fmtx.Fprintf(c.out, "%s %s: %+v\n", card, verb, reply.Payload)
	return nil
}

// run reads commands until EOF, quit or ctx is done. When stdin is a
// terminal it is switched to raw mode and edited through x/term.
func (c *console) run(ctx context.Context, in *os.File) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, old)
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, c.out}, prompt)
		c.out = t
		return c.loop(ctx, t.ReadLine)
	}

	sc := bufio.NewScanner(in)
	return c.loop(ctx, func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return sc.Text(), nil
	})
}

func (c *console) loop(ctx context.Context, readLine func() (string, error)) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		for {
			l, err := readLine()
			if err != nil {
				errs <- err
				return
			}
			select {
			case lines <- l:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return errQuit
			}
			return err
		case l := <-lines:
			switch err := c.exec(ctx, l); {
			case errors.Is(err, errQuit):
				return errQuit
			case err != nil:
				fmtx.Fprintf(c.out, "error: %v\n", err)
			}
		}
	}
}
