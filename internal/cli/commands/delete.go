package commands

import (
	"Wishwall/internal/cli/api"
	"Wishwall/internal/config"
	"context"
	"fmt"
	"net/http"
)

type deleteRequest struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Delete a wish as admin" }
func (deleteCmd) Usage() string       { return "delete <id>" }
func (deleteCmd) AdminOnly() bool      { return true }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	password, err := adminPassword(cfg)
	if err != nil {
		return err
	}

	resp, body, err := api.DoJSON(ctx, http.MethodDelete, wishesURL(cfg), deleteRequest{ID: id, Password: password})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	fmt.Fprintf(Out, "Deleted #%d\n", id)
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }
