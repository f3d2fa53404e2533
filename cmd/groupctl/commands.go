package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mmynk/groupsync/internal/auth"
	"github.com/mmynk/groupsync/pkg/api"
)

type command struct {
	args  int
	usage string
	run   func(ctx context.Context, c *client, args []string) error
}

var commands = map[string]command{
	"login":         {1, "login <name>", login},
	"hash-password": {0, "hash-password", hashPassword},
	"ping":          {0, "ping", ping},
	"groups":        {0, "groups", listGroups},
	"create":        {1, "create <group>", createGroup},
	"rename":        {2, "rename <group> <new-name>", renameGroup},
	"delete":        {1, "delete <group>", deleteGroup},
	"add":           {2, "add <group> <user>", addUser},
	"remove":        {2, "remove <group> <user>", removeUser},
	"attach":        {2, "attach <group> <room>", attachRoom},
	"detach":        {2, "detach <group> <room>", detachRoom},
	"join":          {2, "join <group> <room>", attachRoom},
	"leave":         {2, "leave <group> <room>", detachRoom},
}

func readPassword(c *client) (string, error) {
	scanner := bufio.NewScanner(c.stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

func login(ctx context.Context, c *client, args []string) error {
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Name: args[0], Password: password}))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, resp.Msg.Token)
	return nil
}

func hashPassword(_ context.Context, c *client, _ []string) error {
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, hash)
	return nil
}

func ping(ctx context.Context, c *client, _ []string) error {
	resp, err := c.groups.Ping(ctx, connect.NewRequest(&api.PingRequest{}))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, resp.Msg.Message)
	return nil
}

func listGroups(ctx context.Context, c *client, _ []string) error {
	resp, err := c.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		return err
	}
	if len(resp.Msg.Groups) == 0 {
		fmt.Fprintln(c.stdout, "no groups")
		return nil
	}

	table := tablewriter.NewWriter(c.stdout)
	table.SetHeader([]string{"Group", "Users", "Rooms", "Created"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, g := range resp.Msg.Groups {
		rooms := make([]string, 0, len(g.Rooms))
		for _, r := range g.Rooms {
			rooms = append(rooms, roomLabel(r))
		}
		table.Append([]string{
			g.Name,
			strings.Join(g.Users, "\n"),
			strings.Join(rooms, "\n"),
			time.Unix(g.CreatedAt, 0).UTC().Format(time.DateTime),
		})
	}
	table.Render()
	return nil
}

func createGroup(ctx context.Context, c *client, args []string) error {
	resp, err := c.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: args[0]}))
	if err != nil {
		return err
	}
	done(c, "created group %s", resp.Msg.Group.Name)
	return nil
}

func renameGroup(ctx context.Context, c *client, args []string) error {
	_, err := c.groups.RenameGroup(ctx, connect.NewRequest(&api.RenameGroupRequest{Name: args[0], NewName: args[1]}))
	if err != nil {
		return err
	}
	done(c, "renamed group %s to %s", args[0], args[1])
	return nil
}

func deleteGroup(ctx context.Context, c *client, args []string) error {
	resp, err := c.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{Name: args[0]}))
	if err != nil {
		return err
	}
	done(c, "deleted group %s", args[0])
	printSync(c, resp.Msg.Sync)
	return nil
}

func addUser(ctx context.Context, c *client, args []string) error {
	resp, err := c.groups.AddUser(ctx, connect.NewRequest(&api.AddUserRequest{Group: args[0], User: args[1]}))
	if err != nil {
		return err
	}
	done(c, "added %s to group %s", resp.Msg.User, args[0])
	printSync(c, resp.Msg.Sync)
	return nil
}

func removeUser(ctx context.Context, c *client, args []string) error {
	resp, err := c.groups.RemoveUser(ctx, connect.NewRequest(&api.RemoveUserRequest{Group: args[0], User: args[1]}))
	if err != nil {
		return err
	}
	done(c, "removed %s from group %s", resp.Msg.User, args[0])
	printSync(c, resp.Msg.Sync)
	return nil
}

func attachRoom(ctx context.Context, c *client, args []string) error {
	resp, err := c.groups.AttachRoom(ctx, connect.NewRequest(&api.AttachRoomRequest{Group: args[0], Room: args[1]}))
	if err != nil {
		return err
	}
	done(c, "attached %s to group %s", roomLabel(resp.Msg.Room), args[0])
	printSync(c, resp.Msg.Sync)
	return nil
}

func detachRoom(ctx context.Context, c *client, args []string) error {
	resp, err := c.groups.DetachRoom(ctx, connect.NewRequest(&api.DetachRoomRequest{Group: args[0], Room: args[1]}))
	if err != nil {
		return err
	}
	done(c, "detached %s from group %s", roomLabel(resp.Msg.Room), args[0])
	printSync(c, resp.Msg.Sync)
	return nil
}

func roomLabel(r api.Room) string {
	if r.Alias != "" {
		return fmt.Sprintf("%s (%s)", r.Alias, r.ID)
	}
	return r.ID
}

func done(c *client, format string, args ...any) {
	fmt.Fprintf(c.stdout, "%s %s\n", color.Green.Render("ok"), fmt.Sprintf(format, args...))
}

func printSync(c *client, s api.SyncSummary) {
	fmt.Fprintf(c.stdout, "   invited %d, revoked %d, skipped %d, retained %d\n",
		s.Invited, s.Revoked, s.Skipped, s.Retained)
	if s.Unresolved > 0 {
		fmt.Fprintf(c.stdout, "   %s %d removal(s) not carried out, check the server log and retry\n",
			color.Yellow.Render("warning:"), s.Unresolved)
	}
}
