package ui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// EnvBrowser overrides the command used to open watch URLs
const EnvBrowser = "UTSULOG_BROWSER"

// Launcher runs the programs that leave the result list: the pager and the browser
type Launcher interface {
	ShowInPager(content string) error
	OpenBrowser(url string) error
}

// ExternalOps handles external program operations
type ExternalOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewExternalOps creates a new external operations handler
func NewExternalOps() *ExternalOps {
	return &ExternalOps{}
}

// SetProgram sets the program reference for terminal management
func (e *ExternalOps) SetProgram(p *tea.Program) {
	e.program = p
}

// ShowInPager shows content using the ov pager
func (e *ExternalOps) ShowInPager(content string) error {
	if e.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := e.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = e.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	configureVimKeyBindings(&config)

	root.SetConfig(config)

	return root.Run()
}

// configureVimKeyBindings adds j/k/g/G/q on top of ov's defaults
func configureVimKeyBindings(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	config.Keybind["down"] = []string{"Enter", "Down", "ctrl+n", "j"}
	config.Keybind["up"] = []string{"Up", "ctrl+p", "k"}
	config.Keybind["top"] = []string{"Home", "g"}
	config.Keybind["bottom"] = []string{"End", "G"}
	config.Keybind["exit"] = []string{"Escape", "q", "ctrl+c"}
}

// browserCommand returns the command line that opens url
func browserCommand(url string) (string, []string) {
	if bin := os.Getenv(EnvBrowser); bin != "" {
		fields := strings.Fields(bin)
		return fields[0], append(fields[1:], url)
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// OpenBrowser opens url without waiting for the browser to exit
func (e *ExternalOps) OpenBrowser(url string) error {
	name, args := browserCommand(url)
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("no browser launcher: %w", err)
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the launcher in the background
	go func() { _ = cmd.Wait() }()
	return nil
}
