package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"pthman/internal/config"
	"pthman/internal/model"
	"pthman/internal/session"
	"pthman/internal/tui"
	"pthman/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "pthman",
		Repository: "pthman",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/pthman/pthman/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pthman [options]\n\n")
		fmt.Fprintf(os.Stderr, "pthman manages the .pth path files of embeddable Python distributions.\n")
		fmt.Fprintf(os.Stderr, "It discovers distributions by archive name and lets you inspect, add,\n")
		fmt.Fprintf(os.Stderr, "remove and save sys.path entries per distribution.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pthman                           # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  pthman --report --use 3.9        # Print a site-package report\n")
		fmt.Fprintf(os.Stderr, "  pthman -r -o report.txt          # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  pthman --json                    # Output discovery/site data as JSON\n")
		fmt.Fprintf(os.Stderr, "  pthman --web                     # Serve the JSON API\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output discovery and site data as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a site-package report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include node ids and the deletion log in the report")
	useFlag := pflag.StringP("use", "u", "", "Version to load in report/json mode, e.g. \"Python 3.9.12\" or \"3.9\"")
	webFlag := pflag.BoolP("web", "w", false, "Start the JSON API server")
	distDirFlag := pflag.String("dist-dir", "", "Directory holding the distribution archives (overrides config)")
	siteRootFlag := pflag.String("site-root", "", "User profile root holding Python<ver>/site-packages (overrides config)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.Bool("update", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("pthman version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *distDirFlag != "" {
		cfg.DistDir = *distDirFlag
	}
	if *siteRootFlag != "" {
		cfg.SiteRoot = *siteRootFlag
	}

	if *webFlag {
		runWebMode(cfg)
		return
	}

	if *reportFlag {
		runReportMode(cfg, *useFlag, *outputFlag, *verboseFlag)
		return
	}

	if *jsonFlag {
		runJSONMode(cfg, *useFlag)
		return
	}

	// Default: TUI
	runTUIMode(cfg)
}

// newLogger builds the zerolog logger for the chosen mode. The TUI owns
// the terminal, so its logs go to the configured file or nowhere.
func newLogger(cfg config.Config, tuiMode bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", cfg.LogFile, err)
			os.Exit(1)
		}
		out = f
	case tuiMode:
		out = io.Discard
	default:
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func newSession(cfg config.Config, tuiMode bool) *session.Session {
	return session.New(cfg, newLogger(cfg, tuiMode))
}

// selectIfRequested loads a version for the one-shot CLI modes.
func selectIfRequested(sess *session.Session, use string) {
	if use == "" {
		return
	}
	if err := sess.Select(use); err != nil {
		fmt.Fprintf(os.Stderr, "Error selecting %q: %v\n", use, err)
		os.Exit(1)
	}
}

func runReportMode(cfg config.Config, use, outputFile string, verbose bool) {
	sess := newSession(cfg, false)
	selectIfRequested(sess, use)

	report, err := sess.Report(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		os.Exit(1)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(report)
	}
}

func runJSONMode(cfg config.Config, use string) {
	sess := newSession(cfg, false)
	selectIfRequested(sess, use)

	state, err := sess.State()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(state)
}

func runWebMode(cfg config.Config) {
	sess := newSession(cfg, false)
	srv := web.New(sess, newLogger(cfg, false))
	if err := srv.Start(cfg.WebAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Web server error: %v\n", err)
		os.Exit(1)
	}
}

func runTUIMode(cfg config.Config) {
	log := newLogger(cfg, true)
	m := tui.InitialModel(session.New(cfg, log), log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
