package commands

import (
	"Wishwall/internal/cli/api"
	clirepo "Wishwall/internal/cli/repo"
	fsrepo "Wishwall/internal/cli/repo/fs"
	"Wishwall/internal/config"
	"Wishwall/internal/model"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// passwords — where admin-login keeps the admin password between runs.
var passwords clirepo.PasswordStore = fsrepo.AdminFSStore{}

func wishesURL(cfg *config.Config) string {
	return strings.TrimRight(cfg.ServerURL, "/") + "/api/wishes"
}

// adminPassword prefers ADMIN_PASSWORD from config, then the stored one.
func adminPassword(cfg *config.Config) (string, error) {
	if cfg.AdminPassword != "" {
		return cfg.AdminPassword, nil
	}
	pw, err := passwords.Load()
	if errors.Is(err, fsrepo.ErrNoPassword) {
		return "", errors.New("admin password is not set: run admin-login <password> or set ADMIN_PASSWORD")
	}
	return pw, err
}

// statusError converts a non-success response into a user-facing error.
func statusError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return errors.New("unauthorized: wrong admin password")
	case http.StatusNotFound:
		return errors.New("wish not found")
	case http.StatusBadRequest:
		return fmt.Errorf("rejected: %s", api.ErrorMessage(body))
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, api.ErrorMessage(body))
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUsage
	}
	return id, nil
}

func printWish(w model.Wish) {
	fmt.Fprintf(Out, "- #%d  %s (%s)  %s\n", w.ID, w.Name, w.Location, w.Date)
	fmt.Fprintf(Out, "  %s\n", w.Message)
	if w.HasReply() {
		fmt.Fprintf(Out, "  ↳ %s  (%s)\n", w.Reply, w.ReplyDate)
	}
}
