package commands

import (
	"Wishwall/internal/config"
	"context"
	"fmt"
)

type adminLoginCmd struct{}

func (adminLoginCmd) Name() string { return "admin-login" }
func (adminLoginCmd) Description() string {
	return "Store the admin password for reply/delete"
}
func (adminLoginCmd) Usage() string { return "admin-login <password>" }
func (adminLoginCmd) AdminOnly() bool { return true }

// Run only stores the password; the server checks it on every reply/delete.
func (adminLoginCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	if err := passwords.Save(args[0]); err != nil {
		return fmt.Errorf("saving password: %w", err)
	}
	fmt.Fprintln(Out, "Admin password saved")
	return nil
}

type adminLogoutCmd struct{}

func (adminLogoutCmd) Name() string        { return "admin-logout" }
func (adminLogoutCmd) Description() string { return "Forget the stored admin password" }
func (adminLogoutCmd) Usage() string       { return "admin-logout" }
func (adminLogoutCmd) AdminOnly() bool      { return true }

func (adminLogoutCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := passwords.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Admin password removed")
	return nil
}

func init() {
	RegisterCmd(adminLoginCmd{})
	RegisterCmd(adminLogoutCmd{})
}
