// Command groupctl is the operator CLI for a groupsync server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/gookit/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.Red.Render("error:"), describe(err))
		os.Exit(1)
	}
}

func describe(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return fmt.Sprintf("%s (%s)", connectErr.Message(), connectErr.Code())
	}
	return err.Error()
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cli, rest, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", rest[0], usage)
	}
	if len(rest)-1 != cmd.args {
		return fmt.Errorf("%s: expected %d argument(s)\nusage: groupctl %s", rest[0], cmd.args, cmd.usage)
	}

	ctx, cancel := context.WithTimeout(ctx, cli.timeout)
	defer cancel()
	cli.stdin = stdin
	cli.stdout = stdout
	return cmd.run(ctx, cli, rest[1:])
}
