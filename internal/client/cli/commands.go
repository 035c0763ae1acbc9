package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

var errUsage = errors.New("wrong arguments")

func (a *App) credentials() (string, string, error) {
	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return userName, password, nil
}

func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}

	acc, err := a.api.Register(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s with id %d\n", acc.Username, acc.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, userName, password); err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.api.WhoAmI()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %s, %s)\n", id.Name, id.ID, id.Role)
	return nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.api.ListMedia(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No media")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tNAME\tSIZE\tURL")
	for _, m := range items {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\n", m.ID, m.Owner, m.Name, m.Size, m.URL)
	}
	return tw.Flush()
}

// Upload takes the file path and an optional description.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: upload <path> [description]", errUsage)
	}

	description := ""
	if len(args) > 1 {
		description = strings.Join(args[1:], " ")
	}

	m, err := a.api.Upload(ctx, args[0], "", description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s as %d (%d bytes)\n", m.Name, m.ID, m.Size)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <id>", errUsage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be a number", errUsage)
	}

	if err := a.api.DeleteMedia(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d\n", id)
	return nil
}
