package commands

import (
	"Wishwall/internal/cli/api"
	"Wishwall/internal/config"
	"Wishwall/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type wishAddRequest struct {
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

type wishAddCmd struct{}

func (wishAddCmd) Name() string { return "wish-add" }
func (wishAddCmd) Description() string {
	return "Post a wish (name and location are optional)"
}
func (wishAddCmd) Usage() string { return "wish-add <message> [<name> [<location>]]" }

func (wishAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 3 || args[0] == "" {
		return ErrUsage
	}
	req := wishAddRequest{Message: args[0]}
	if len(args) >= 2 {
		req.Name = args[1]
	}
	if len(args) == 3 {
		req.Location = args[2]
	}

	resp, body, err := api.DoJSON(ctx, http.MethodPost, wishesURL(cfg), req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return statusError(resp, body)
	}
	var w model.Wish
	if err := json.Unmarshal(body, &w); err != nil {
		return fmt.Errorf("decode wish: %w", err)
	}
	fmt.Fprintln(Out, "Created:")
	printWish(w)
	return nil
}

func init() { RegisterCmd(wishAddCmd{}) }
