package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
)

const usage = `usage: groupctl [flags] <command> [args]

commands:
  login <name>               print a token (password read from stdin)
  hash-password              print a bcrypt hash for OPERATOR_PASSWORD_HASH
  ping                       check the server and its store
  groups                     list groups
  create <group>             create a group
  rename <group> <new-name>  rename a group
  delete <group>             delete a group, revoking its members
  add <group> <user>         add a user and invite them to the group's rooms
  remove <group> <user>      remove a user and kick them where no other group grants access
  attach <group> <room>      attach a room by ID or alias
  detach <group> <room>      detach a room
  join, leave                aliases of attach and detach

flags:
`

var errUsage = errors.New(usage)

func parseFlags(args []string) (*client, []string, error) {
	flags := pflag.NewFlagSet("groupctl", pflag.ContinueOnError)
	server := flags.String("server", envOr("GROUPSYNC_SERVER", "http://localhost:8080"), "groupsync server URL")
	token := flags.String("token", os.Getenv("GROUPSYNC_TOKEN"), "bearer token from 'groupctl login'")
	timeout := flags.Duration("timeout", time.Minute, "request timeout")
	flags.SetInterspersed(false)
	flags.Usage = func() {}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, nil, errors.New(usage + flags.FlagUsages())
		}
		return nil, nil, err
	}
	return newClient(http.DefaultClient, *server, *token, *timeout), flags.Args(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
