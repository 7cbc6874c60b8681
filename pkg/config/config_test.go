package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerOptionsDefaultsPort(t *testing.T) {
	opts, err := ParseServerOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, 9999, opts.Port)
}

func TestParseServerOptionsReadsPortFlag(t *testing.T) {
	opts, err := ParseServerOptions([]string{"-port", "4000"})
	require.NoError(t, err)
	assert.Equal(t, 4000, opts.Port)
}

func TestParseClientOptionsRejectsInvalidName(t *testing.T) {
	_, err := ParseClientOptions([]string{"-player_name", ""})
	assert.Error(t, err)
}

func TestParseClientOptionsRejectsInvalidColor(t *testing.T) {
	_, err := ParseClientOptions([]string{"-preferred_color", "not-a-color"})
	assert.Error(t, err)
}

func TestParseClientOptionsAddrFormatting(t *testing.T) {
	opts, err := ParseClientOptions([]string{"-server_ip", "10.0.0.5", "-server_port", "7777"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:7777", opts.Addr())
}
