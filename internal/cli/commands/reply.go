package commands

import (
	"Wishwall/internal/cli/api"
	"Wishwall/internal/config"
	"Wishwall/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type replyRequest struct {
	ID       int64  `json:"id"`
	Reply    string `json:"reply"`
	Password string `json:"password"`
}

type replyCmd struct{}

func (replyCmd) Name() string        { return "reply" }
func (replyCmd) Description() string { return "Reply to a wish as admin" }
func (replyCmd) Usage() string       { return "reply <id> <text>" }
func (replyCmd) AdminOnly() bool      { return true }

func (replyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return ErrUsage
	}
	password, err := adminPassword(cfg)
	if err != nil {
		return err
	}

	resp, body, err := api.DoJSON(ctx, http.MethodPut, wishesURL(cfg), replyRequest{ID: id, Reply: text, Password: password})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	var w model.Wish
	if err := json.Unmarshal(body, &w); err != nil {
		return fmt.Errorf("decode wish: %w", err)
	}
	fmt.Fprintln(Out, "Replied:")
	printWish(w)
	return nil
}

func init() { RegisterCmd(replyCmd{}) }
