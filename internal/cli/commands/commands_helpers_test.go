package commands

import (
	"runtime"
	"testing"

	fsrepo "Wishwall/internal/cli/repo/fs"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы сохранённый пароль администратора создавался в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	old := passwords
	passwords = fsrepo.AdminFSStore{}
	t.Cleanup(func() { passwords = old })
	return dir
}
