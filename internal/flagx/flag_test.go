package flagx

import (
	"os"
	"reflect"
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
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag but with equals form",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "multiple allowed flags kept",
			args:         []string{"-a", "localhost:8080", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", "localhost:8080", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "data dir and timeout kept, base url dropped",
			args:         []string{"-a", "https://cartas.example", "-d", "/var/lib/ml", "-t=15"},
			allowedFlags: []string{"-d", "-t"},
			want:         []string{"-d", "/var/lib/ml", "-t=15"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-c", "--config=alt.json"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "--config=alt.json"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want ConfigFile
	}{
		{
			name: "short -c with value",
			args: []string{"-c", "/path/short.json"},
			want: ConfigFile{Path: "/path/short.json", Format: FormatJSON},
		},
		{
			name: "long -config with value",
			args: []string{"-config", "/path/long.json"},
			want: ConfigFile{Path: "/path/long.json", Format: FormatJSON},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-x", "1", "-y", "2"},
			want: ConfigFile{},
		},
		{
			name: "yaml file with equals form",
			args: []string{"-a", "https://cartas.example", "-c=/etc/magicletters.yaml"},
			want: ConfigFile{Path: "/etc/magicletters.yaml", Format: FormatYAML},
		},
		{
			name: "multiple flags, last wins",
			args: []string{"-c", "/path/1.yml", "-config", "/path/2.json"},
			want: ConfigFile{Path: "/path/2.json", Format: FormatJSON},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = append([]string{"testbin"}, tt.args...)
			assert.Equal(t, tt.want, ConfigFileFlag())
		})
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("/etc/ML.YML"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatJSON, FormatOf("noext"))
	assert.Equal(t, FormatJSON, FormatOf("dir.yaml/conf"))
}
