package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const wpaStatusConnected = `bssid=aa:bb:cc:dd:ee:ff
freq=2437
ssid=home
id=0
mode=station
wpa_state=COMPLETED
ip_address=192.168.1.20
address=11:22:33:44:55:66
`

func TestParseWPAState(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   State
	}{
		{"completed", wpaStatusConnected, Connected},
		{"scanning", "wpa_state=SCANNING\n", Connecting},
		{"handshake", "wpa_state=4WAY_HANDSHAKE\n", Connecting},
		{"disconnected", "wpa_state=DISCONNECTED\n", Disconnected},
		{"interface disabled", "wpa_state=INTERFACE_DISABLED\n", Disconnected},
		{"empty", "", Disconnected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, parseWPAState(tc.status))
		})
	}
}

func TestWPAStatusField(t *testing.T) {
	require.Equal(t, "192.168.1.20", wpaStatusField(wpaStatusConnected, "ip_address"))
	require.Equal(t, "home", wpaStatusField(wpaStatusConnected, "ssid"))
	require.Equal(t, "", wpaStatusField(wpaStatusConnected, "missing"))
}
