package util

import (
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/dState/lib/codec"
	"github.com/spf13/viper"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line longer than %d: %q", Wrap, line)
		}
	}
	if got := WrapString("  short   text "); got != "short text" {
		t.Errorf("WrapString() = %q", got)
	}
}

func TestGetConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("modules", " layout , components,")
	viper.Set("format", "yaml")
	viper.Set("indent", "\t")
	viper.Set("log-level", "debug")

	config, err := GetConfig()
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if len(config.Modules) != 2 || config.DefaultModule() != "layout" {
		t.Errorf("Modules = %v", config.Modules)
	}
	if config.OutputFormat != "yaml" || config.Indent != "\t" {
		t.Errorf("unexpected config: %+v", config)
	}

	c, err := GetCodec(config)
	if err != nil {
		t.Fatalf("GetCodec: %v", err)
	}
	if got := c.Modules()[0].Name(); got != "layout" {
		t.Errorf("default module = %s", got)
	}

	viper.Set("format", "xml")
	if _, err := GetConfig(); err == nil {
		t.Errorf("expected error for invalid format")
	}
}

func TestDescribeError(t *testing.T) {
	_, err := codec.Serialize(struct{ Content any }{Content: 1})
	got := DescribeError(err).Error()
	want := "UnsupportedObjectType: Allowed types: string, double or bool! (at $.Content)"
	if got != want {
		t.Errorf("DescribeError() = %q, want %q", got, want)
	}

	plain := errors.New("plain")
	if DescribeError(plain) != plain {
		t.Errorf("non codec error changed")
	}
}
