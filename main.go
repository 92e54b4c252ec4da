package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"xroadfields/internal/api"
	"xroadfields/internal/config"
	"xroadfields/internal/fields"
	"xroadfields/internal/logger"
	"xroadfields/internal/model"
	"xroadfields/internal/report"
	"xroadfields/internal/response"
	"xroadfields/internal/tui"
	"xroadfields/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "xroad-tools",
		Repository: "xroadfields",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/xroad-tools/xroadfields/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: xroadfields [options]\n\n")
		fmt.Fprintf(os.Stderr, "xroadfields configures which response fields of an X-Road service are\n")
		fmt.Fprintf(os.Stderr, "passed through the gateway and which of them are masked as sensitive.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  xroadfields                          # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  xroadfields -r -s lihtandmed_v2      # Print the field tree of a service\n")
		fmt.Fprintf(os.Stderr, "  xroadfields -r -s SVC -o r.txt       # Save the report to a file\n")
		fmt.Fprintf(os.Stderr, "  xroadfields -j -s SVC                # Leaf-field configuration as JSON\n")
		fmt.Fprintf(os.Stderr, "  xroadfields --preview resp.json -s SVC  # Apply the saved config to a response\n")
		fmt.Fprintf(os.Stderr, "  xroadfields --web --fixtures f.yaml  # Run the fixture backend\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output the leaf-field configuration of --service as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print the field tree of --service (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include paths, types and descriptions in the report")
	serviceFlag := pflag.StringP("service", "s", "", "Service name for --report, --json and --preview")
	previewFlag := pflag.String("preview", "", "Apply the saved configuration of --service to a response JSON file")
	webFlag := pflag.BoolP("web", "w", false, "Run the fixture backend")
	fixturesFlag := pflag.String("fixtures", "", "Fixture file for --web (YAML or JSON, reloaded on change)")
	addrFlag := pflag.String("addr", "", "Listen address for --web (default :5000)")
	backendFlag := pflag.String("backend", "", "Admin backend URL")
	wsdlFlag := pflag.String("wsdl", "", "WSDL URL to list services from")
	configFlag := pflag.String("config", config.DefaultPath(), "Configuration file (TOML, YAML or JSON)")
	logLevelFlag := pflag.String("log-level", "", "Log level: debug, info, warn, error")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("xroadfields version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backendFlag != "" {
		cfg.Backend.URL = *backendFlag
	}
	if *wsdlFlag != "" {
		cfg.WSDL.URL = *wsdlFlag
	}
	if *logLevelFlag != "" {
		cfg.Logging.Level = *logLevelFlag
	}
	if *fixturesFlag != "" {
		cfg.Fixtures.File = *fixturesFlag
	}
	if *addrFlag != "" {
		cfg.Fixtures.Addr = *addrFlag
	}

	closer, err := logger.Init(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Stderr:     cfg.Logging.Stderr || *webFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initialising logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if *webFlag {
		if err := runWebMode(cfg); err != nil {
			slog.Error("fixture backend stopped", "err", err)
			os.Exit(1)
		}
		return
	}

	client := api.NewClient(cfg.Backend.URL, cfg.RequestTimeout())

	if *reportFlag || *jsonFlag || *previewFlag != "" {
		if *serviceFlag == "" {
			fmt.Fprintln(os.Stderr, "Error: --service is required")
			os.Exit(2)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()

		switch {
		case *previewFlag != "":
			err = runPreviewMode(ctx, client, *serviceFlag, *previewFlag, *verboseFlag, os.Stdout)
		case *reportFlag:
			err = runReportMode(ctx, client, *serviceFlag, *outputFlag, *verboseFlag)
		default:
			err = runJSONMode(ctx, client, *serviceFlag, os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Default: TUI
	runTuiMode(cfg, client)
}

func runReportMode(ctx context.Context, client *api.Client, service, outputFile string, verbose bool) error {
	sf, err := client.ServiceFields(ctx, service)
	if err != nil {
		return err
	}
	endpoint := ""
	if sf.Endpoint != nil {
		endpoint = sf.Endpoint.Endpoint
	}

	out := report.Generate(service, fields.NewStore(sf.Fields), endpoint, verbose)
	if outputFile == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write report to %s: %w", outputFile, err)
	}
	fmt.Printf("Report saved to %s\n", outputFile)
	return nil
}

func runJSONMode(ctx context.Context, client *api.Client, service string, w io.Writer) error {
	sf, err := client.ServiceFields(ctx, service)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Service string              `json:"service"`
		Fields  []model.FieldRecord `json:"fields"`
	}{service, fields.NewStore(sf.Fields).LeafRecords()})
}

func runPreviewMode(ctx context.Context, client *api.Client, service, file string, raw bool, w io.Writer) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	doc, err := response.Parse(data)
	if err != nil {
		return err
	}
	fc, err := client.FilterConfig(ctx, service)
	if err != nil {
		return err
	}

	filtered := response.Apply(response.Unwrap(doc), fc)
	if raw {
		_, err = fmt.Fprintln(w, response.RawJSON(filtered))
		return err
	}

	fmt.Fprintf(w, "%s: %d selected, %d sensitive, %d masked values, %s\n\n",
		service, len(fc.SelectedFields), len(fc.SensitiveFields), response.CountMasked(filtered), response.Size(filtered))
	for _, line := range response.Render(filtered) {
		indent := strings.Repeat("  ", line.Depth)
		if line.Key == "" {
			fmt.Fprintf(w, "%s%s\n", indent, line.Value)
		} else {
			fmt.Fprintf(w, "%s%s: %s\n", indent, line.Key, line.Value)
		}
	}
	return nil
}

func runWebMode(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		fx  *web.Fixture
		err error
	)
	if cfg.Fixtures.File != "" {
		fx, err = web.LoadFixture(cfg.Fixtures.File)
	} else {
		fx, err = web.DefaultFixture()
	}
	if err != nil {
		return err
	}

	srv := web.NewServer(fx)
	if cfg.Fixtures.File != "" {
		if err := srv.Watch(ctx, cfg.Fixtures.File, nil); err != nil {
			return err
		}
	}

	fmt.Printf("Starting xroadfields fixture backend at http://localhost%s\n", cfg.Fixtures.Addr)
	fmt.Printf("Point the console at it with: xroadfields --backend http://localhost%s\n", cfg.Fixtures.Addr)
	return srv.Run(ctx, cfg.Fixtures.Addr)
}

// checkBackend checks the admin backend before the console starts. The
// returned notice is empty when the backend answered.
func checkBackend(ctx context.Context, client *api.Client) string {
	if err := client.Health(ctx); err != nil {
		slog.Warn("backend not reachable", "url", client.BaseURL(), "err", err)
		return fmt.Sprintf("Backend %s is not reachable: %v", client.BaseURL(), err)
	}
	slog.Debug("backend healthy", "url", client.BaseURL())
	return ""
}

func runTuiMode(cfg *config.Config, client *api.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	notice := checkBackend(ctx, client)
	cancel()

	m := tui.InitialModel(tui.Options{
		Backend:        client,
		WSDLURL:        cfg.WSDL.URL,
		Timeout:        cfg.Timeout(),
		RequestTimeout: cfg.RequestTimeout(),
		MessageTTL:     cfg.MessageTTL(),
		IndentWidth:    cfg.UI.IndentWidth,
		Notice:         notice,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	start := time.Now()
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	slog.Debug("console closed", "uptime", time.Since(start))
}
