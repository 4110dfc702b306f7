// Package launch opens a clicked thumbnail outside the terminal: videos in a
// media player, everything else in the system browser.
package launch

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/mmcdole/locker/internal/domain"
)

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv"},
}

// Opener launches thumbnails in an external application
type Opener struct {
	command string   // configured player command, empty to auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger

	goos     string
	lookPath func(string) (string, error)
	start    func(cmd *exec.Cmd) error
}

// NewOpener creates an Opener. command and args configure the video player.
func NewOpener(command string, args []string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command:  command,
		args:     args,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Open validates the media URL of item and hands it to a player or browser
func (o *Opener) Open(item domain.Thumbnail) error {
	target, err := validate(item.MediaURL)
	if err != nil {
		return err
	}

	if item.IsVideo() {
		err := o.launchPlayer(target)
		if err == nil {
			return nil
		}
		o.logger.Debug("no player available, falling back to browser", "error", err)
	}
	return o.launchBrowser(target)
}

// validate only lets http and https URLs reach a command line
func validate(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}
	return parsed.String(), nil
}

func (o *Opener) launchPlayer(target string) error {
	// Tier 1: User configured a specific player
	if o.command != "" {
		args := append(append([]string{}, o.args...), target)
		o.logger.Info("launching player", "command", o.command, "url", target)
		return o.start(exec.Command(o.command, args...)) // #nosec G204 -- URL validated
	}

	// Tier 2: First candidate player found in PATH
	candidates, ok := candidatePlayers[o.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}
	for _, name := range candidates {
		path, err := o.lookPath(name)
		if err != nil {
			continue
		}
		o.logger.Info("launched with detected player", "player", name, "url", target)
		return o.start(exec.Command(path, target)) // #nosec G204 -- URL validated
	}
	return fmt.Errorf("no candidate players found")
}

func (o *Opener) launchBrowser(target string) error {
	var cmd *exec.Cmd

	switch o.goos {
	case "darwin":
		cmd = exec.Command("open", target) // #nosec G204 -- URL validated
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target) // #nosec G204 -- URL validated
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", target) // #nosec G204 -- URL validated
	default:
		return fmt.Errorf("unsupported platform: %s", o.goos)
	}

	o.logger.Info("launching with system default", "os", o.goos, "url", target)
	return o.start(cmd)
}
