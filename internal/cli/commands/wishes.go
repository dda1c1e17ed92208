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

type wishesCmd struct{}

func (wishesCmd) Name() string        { return "wishes" }
func (wishesCmd) Description() string { return "Show all wishes, newest first" }
func (wishesCmd) Usage() string       { return "wishes" }

func (wishesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	resp, body, err := api.DoJSON(ctx, http.MethodGet, wishesURL(cfg), nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	var list []model.Wish
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("decode wishes: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No wishes yet")
		return nil
	}
	for _, w := range list {
		printWish(w)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(wishesCmd{}) }
