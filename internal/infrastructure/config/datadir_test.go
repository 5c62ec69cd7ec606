package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDataDir(t *testing.T) {
	home := func() (string, error) { return "/home/ita", nil }
	noHome := func() (string, error) { return "", errors.New("$HOME is not defined") }

	tests := []struct {
		name    string
		env     string
		homeDir func() (string, error)
		want    string
	}{
		{"默认在主目录下", "", home, filepath.Join("/home/ita", ".todo-api")},
		{"环境变量覆盖", "/var/lib/todo", home, "/var/lib/todo"},
		{"环境变量两端空白被忽略", "  /srv/todo/  ", home, "/srv/todo"},
		{"只有空白视为未设置", "   ", home, filepath.Join("/home/ita", ".todo-api")},
		{"展开波浪号", "~/todo-data", home, filepath.Join("/home/ita", "todo-data")},
		{"单独的波浪号", "~", home, "/home/ita"},
		{"无主目录时回退到相对路径", "", noHome, ".todo-api"},
		{"无主目录时波浪号原样保留", "~/x", noHome, "~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string {
				if key == EnvDataDir {
					return tt.env
				}
				return ""
			}
			assert.Equal(t, tt.want, resolveDataDir(getenv, tt.homeDir))
		})
	}
}

func TestGetDataDir_ResolvedOnce(t *testing.T) {
	ResetDataDir()
	t.Cleanup(ResetDataDir)

	first := t.TempDir()
	t.Setenv(EnvDataDir, first)
	assert.Equal(t, first, GetDataDir())

	// 运行中修改环境变量不影响已解析的目录
	t.Setenv(EnvDataDir, t.TempDir())
	assert.Equal(t, first, GetDataDir())

	ResetDataDir()
	second := t.TempDir()
	t.Setenv(EnvDataDir, second)
	assert.Equal(t, second, GetDataDir())
	assert.Equal(t, filepath.Join(second, ConfigFileName), GetConfigPath())
}
