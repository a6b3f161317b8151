package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "order preserved",
			args:         []string{"-s", "k", "-a", ":9", "-d", "dsn"},
			allowedFlags: []string{"-a", "-s"},
			want:         []string{"-s", "k", "-a", ":9"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag at the end without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next arg is a flag, not a value",
			args:         []string{"-c", "-v"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "nil args",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("short flag", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		assert.Equal(t, "a.json", ConfigFile([]string{"-a", ":1", "-c", "a.json"}))
	})

	t.Run("long flag with equals", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		assert.Equal(t, "b.json", ConfigFile([]string{"-config=b.json"}))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "env.json")
		assert.Equal(t, "env.json", ConfigFile([]string{"-a", ":1"}))
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "env.json")
		assert.Equal(t, "flag.json", ConfigFile([]string{"-c", "flag.json"}))
	})

	t.Run("nothing", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		assert.Equal(t, "", ConfigFile(nil))
	})
}
