package link

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const wpaCliTimeout = 5 * time.Second

// WPACli drives a wpa_supplicant-managed wireless interface through the
// wpa_cli control utility.
type WPACli struct {
	iface string
	ssid  string
	psk   string

	configured bool
}

// NewWPACli creates an adapter for the given interface. ssid may be
// empty when the network is already registered in the supplicant
// configuration; psk may be empty for open networks.
func NewWPACli(iface, ssid, psk string) *WPACli {
	return &WPACli{iface: iface, ssid: ssid, psk: psk}
}

func (w *WPACli) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), wpaCliTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "wpa_cli", append([]string{"-i", w.iface}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("wpa_cli %v: %w - %s", args, err, string(out))
	}
	return string(out), nil
}

// Status queries wpa_supplicant for the current association state.
// An unreachable supplicant counts as disconnected.
func (w *WPACli) Status() State {
	out, err := w.run("status")
	if err != nil {
		return Disconnected
	}
	return parseWPAState(out)
}

// Begin asks wpa_supplicant to associate. On the first call with an
// SSID configured the network is registered with the supplicant; later
// calls just trigger a reconnect. It returns as soon as the command is
// accepted; association continues in the background.
func (w *WPACli) Begin() error {
	if w.ssid != "" && !w.configured {
		if err := w.configure(); err != nil {
			return err
		}
		w.configured = true
		return nil
	}

	_, err := w.run("reconnect")
	return err
}

// LocalAddr returns the IP address reported by wpa_supplicant, if any.
func (w *WPACli) LocalAddr() string {
	out, err := w.run("status")
	if err != nil {
		return ""
	}
	return wpaStatusField(out, "ip_address")
}

func (w *WPACli) configure() error {
	out, err := w.run("add_network")
	if err != nil {
		return err
	}
	id := strings.TrimSpace(out)

	if _, err := w.run("set_network", id, "ssid", fmt.Sprintf("%q", w.ssid)); err != nil {
		return err
	}
	if w.psk == "" {
		_, err = w.run("set_network", id, "key_mgmt", "NONE")
	} else {
		_, err = w.run("set_network", id, "psk", fmt.Sprintf("%q", w.psk))
	}
	if err != nil {
		return err
	}

	_, err = w.run("select_network", id)
	return err
}

func parseWPAState(status string) State {
	switch wpaStatusField(status, "wpa_state") {
	case "COMPLETED":
		return Connected
	case "SCANNING", "AUTHENTICATING", "ASSOCIATING", "ASSOCIATED",
		"4WAY_HANDSHAKE", "GROUP_HANDSHAKE":
		return Connecting
	default:
		return Disconnected
	}
}

func wpaStatusField(status, key string) string {
	sc := bufio.NewScanner(strings.NewReader(status))
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if ok && k == key {
			return v
		}
	}
	return ""
}
