package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Command
		wantErr bool
	}{
		{
			name: "set wifi",
			data: "SET_WIFI,HomeNet,hunter2",
			want: Command{SSID: "HomeNet", Password: "hunter2"},
		},
		{
			name: "set wifi password with commas",
			data: "SET_WIFI,HomeNet,pass,with,commas",
			want: Command{SSID: "HomeNet", Password: "pass,with,commas"},
		},
		{
			name: "set wifi empty fields accepted",
			data: "SET_WIFI,,",
			want: Command{},
		},
		{
			name: "set wifi profile",
			data: "SET_WIFI_PROFILE,HomeNet,hunter2,GuestWifi",
			want: Command{SSID: "HomeNet", Password: "hunter2", Profile: "GuestWifi"},
		},
		{
			name: "set wifi profile trims profile",
			data: "SET_WIFI_PROFILE,HomeNet,hunter2, GuestWifi ",
			want: Command{SSID: "HomeNet", Password: "hunter2", Profile: "GuestWifi"},
		},
		{
			name:    "set wifi profile empty profile",
			data:    "SET_WIFI_PROFILE,HomeNet,hunter2,",
			wantErr: true,
		},
		{
			name:    "set wifi profile blank profile",
			data:    "SET_WIFI_PROFILE,HomeNet,hunter2,   ",
			wantErr: true,
		},
		{
			name:    "set wifi missing password",
			data:    "SET_WIFI,HomeNet",
			wantErr: true,
		},
		{
			name:    "set wifi profile missing profile field",
			data:    "SET_WIFI_PROFILE,HomeNet,hunter2",
			wantErr: true,
		},
		{
			name:    "unknown prefix",
			data:    "GET_WIFI,HomeNet,hunter2",
			wantErr: true,
		},
		{
			name:    "bare command",
			data:    "SET_WIFI",
			wantErr: true,
		},
		{
			name:    "empty packet",
			data:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.data)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPacket)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandEncode_RoundTrip(t *testing.T) {
	for _, cmd := range []Command{
		{SSID: "HomeNet", Password: "hunter2"},
		{SSID: "HomeNet", Password: "hunter2", Profile: "GuestWifi"},
	} {
		parsed, err := ParseCommand(cmd.Encode())
		require.NoError(t, err)
		assert.Equal(t, cmd, parsed)
	}
}

func TestCommandRedacted(t *testing.T) {
	c := Command{SSID: "HomeNet", Password: "hunter2"}
	assert.Equal(t, "SET_WIFI,HomeNet,<password hidden>", c.Redacted())
	assert.NotContains(t, c.Redacted(), "hunter2")

	c.Profile = "GuestWifi"
	assert.Equal(t, "SET_WIFI_PROFILE,HomeNet,<password hidden>,GuestWifi", c.Redacted())
}
