package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gowikibot/wikibot/internal/api"
	"github.com/gowikibot/wikibot/internal/config"
	"github.com/gowikibot/wikibot/internal/database"
	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/generator"
	"github.com/gowikibot/wikibot/internal/interwiki"
	"github.com/gowikibot/wikibot/internal/log"
	"github.com/gowikibot/wikibot/internal/model"
	"github.com/gowikibot/wikibot/internal/report"
)

// NewInterwikiCmd creates the interwiki command.
func NewInterwikiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interwiki [titles or source args]",
		Short: "Resolve interwiki language links across a wiki family",
		Long: `Interwiki computes, for each origin page, the closure of pages reachable
through interwiki language links on every edition of the family. It
resolves conflicts between competing candidates, then rewrites the
origin's link block so it lists exactly one page per language.

Origin pages come from positional arguments. Bare arguments are page
titles; arguments starting with "-" select a page source (place them
after "--" so they are not parsed as flags):

  -page:Title      a single page
  -file:path       titles from a file, one per line
  -cat:Category    members of a category
  -start:Title     all pages from Title onward
  -ns:N            restrict API sources to namespace N
  -limit:N         stop after N titles

Examples:
  # One page, report only
  wikibot interwiki --lang en --dry-run "Go (programming language)"

  # A whole category, saving changes
  wikibot interwiki --lang de --autonomous -- -cat:Physik

  # Titles from a file, Markdown report to disk
  wikibot interwiki --lang en --markdown -o report.md -- -file:titles.txt

  # Interactive conflict resolution (single fetch lane)
  wikibot interwiki --lang en --concurrency 1 "Ambiguous title"`,
		Args: cobra.ArbitraryArgs,
		RunE: runInterwikiCmd,
	}

	// Site selection flags
	cmd.Flags().StringP("family", "F", "",
		"Wiki family to operate on (default from project file, else wikipedia)")
	cmd.Flags().StringP("lang", "l", "",
		"Language code of the origin site (default from project file)")

	// Engine behavior flags
	cmd.Flags().BoolP("autonomous", "a", false,
		"Never prompt; settle conflicts by policy or record them unresolved")
	cmd.Flags().BoolP("dry-run", "n", false,
		"Compute and report changes without saving any page")
	cmd.Flags().Bool("follow-redirects", false,
		"Treat a redirect origin as its target instead of skipping it")
	cmd.Flags().StringArray("hint", nil,
		"Extra starting point in code:Title form (repeatable; also: code, all)")

	// Tuning flags
	cmd.Flags().Int("query-size", config.DefaultMaxQuerySize,
		"Titles per batched API request (50 without apihighlimits, up to 500)")
	cmd.Flags().Int("open-subjects", config.DefaultMaxOpenSubjects,
		"Maximum origin pages resolved simultaneously")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Maximum sites queried in parallel")
	cmd.Flags().Duration("throttle", config.DefaultThrottle,
		"Minimum delay between page saves")
	cmd.Flags().Int("maxlag", config.DefaultMaxlag,
		"maxlag politeness parameter sent with every request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for API requests")

	// Project file
	cmd.Flags().StringP("project", "c", "",
		"Project file path (default: .wikibot in current dir, XDG config or home)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the local run database")

	return cmd
}

// runInterwikiCmd executes the interwiki command.
func runInterwikiCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	if getLogJSONFlag(cmd) {
		logger = log.NewJSONLogger(os.Stderr, cfg.Verbose)
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runInterwiki(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		logJSON, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return logJSON
}

// buildConfig creates a Config from cobra command flags and the project file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.ProjectFilePath, err = cmd.Flags().GetString("project")
	if err != nil {
		return nil, err
	}

	// If the user explicitly named a project file, it must exist.
	// Without one, a missing file just means defaults.
	explicitProjectPath := cfg.ProjectFilePath != ""
	projectPath := config.FindProjectFile(cfg.ProjectFilePath)

	switch {
	case projectPath != "":
		cfg.Project, err = config.LoadProjectFile(projectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load project file %s: %w", projectPath, err)
		}
	case explicitProjectPath:
		return nil, fmt.Errorf("project file not found: %s", cfg.ProjectFilePath)
	default:
		cfg.Project = &config.File{}
	}

	// Flags win over the project file, which wins over built-in defaults.
	if cmd.Flags().Changed("family") {
		cfg.FamilyName, _ = cmd.Flags().GetString("family")
	} else if cfg.Project.Family != "" {
		cfg.FamilyName = cfg.Project.Family
	}
	if cmd.Flags().Changed("lang") {
		cfg.LangCode, _ = cmd.Flags().GetString("lang")
	} else {
		cfg.LangCode = cfg.Project.Lang
	}

	cfg.Autonomous, err = cmd.Flags().GetBool("autonomous")
	if err != nil {
		return nil, err
	}
	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}
	cfg.FollowRedirects, err = cmd.Flags().GetBool("follow-redirects")
	if err != nil {
		return nil, err
	}

	hints, err := cmd.Flags().GetStringArray("hint")
	if err != nil {
		return nil, err
	}
	cfg.Hints = append(append([]string{}, cfg.Project.Hints...), hints...)

	cfg.MaxQuerySize, err = cmd.Flags().GetInt("query-size")
	if err != nil {
		return nil, err
	}
	cfg.MaxOpenSubjects, err = cmd.Flags().GetInt("open-subjects")
	if err != nil {
		return nil, err
	}
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	// Interactive runs need a single fetch lane so prompts stay readable.
	// When the user left the knob alone, narrow it instead of rejecting
	// the default configuration outright.
	if !cfg.Autonomous && !cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = 1
	}
	cfg.Throttle, err = cmd.Flags().GetDuration("throttle")
	if err != nil {
		return nil, err
	}
	cfg.Maxlag, err = cmd.Flags().GetInt("maxlag")
	if err != nil {
		return nil, err
	}
	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.DBDir = config.XDGDataDir()

	cfg.GeneratorArgs = args

	return cfg, nil
}

// runInterwiki wires the engine together and executes the run.
func runInterwiki(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fam, err := buildFamily(cfg)
	if err != nil {
		return err
	}

	code, err := fam.Canonical(cfg.LangCode)
	if err != nil {
		return fmt.Errorf("invalid origin language %q: %w", cfg.LangCode, err)
	}
	originSite, err := fam.Site(code)
	if err != nil {
		return err
	}

	pool, err := buildPool(cfg, logger)
	if err != nil {
		return err
	}

	originClient, err := pool.For(originSite)
	if err != nil {
		return fmt.Errorf("failed to reach origin site %s: %w", originSite.Key(), err)
	}

	source, err := buildSource(originClient, cfg.GeneratorArgs)
	if err != nil {
		return err
	}

	var resolver interwiki.Resolver = interwiki.AutoResolver{}
	if !cfg.Autonomous {
		resolver = interwiki.NewTerminalResolver(os.Stdin, os.Stdout)
	}

	botOpts := []interwiki.BotOption{
		interwiki.WithBotLogger(logger),
		interwiki.WithResolver(resolver),
	}
	if !cfg.DryRun {
		botOpts = append(botOpts, interwiki.WithStore(
			func(ctx context.Context, site family.Site) (interwiki.PageStore, error) {
				return pool.LoginFor(ctx, site)
			}))
	}

	fetcherFor := func(site family.Site) (interwiki.PageFetcher, error) {
		return pool.For(site)
	}

	bot := interwiki.NewBot(cfg, fam, originSite, fetcherFor, source, botOpts...)

	logger.Info("starting interwiki run",
		"family", fam.Name,
		"origin", originSite.Key(),
		"dryRun", cfg.DryRun,
		"autonomous", cfg.Autonomous,
		"concurrency", cfg.Concurrency,
	)

	summary, runErr := bot.Run(ctx)

	// A cancelled or failed run still reports and records what finished.
	if err := outputReport(cfg, summary); err != nil {
		logger.Error("report failed", "error", err)
	}
	if err := saveRunSummary(context.WithoutCancel(ctx), cfg, summary, logger); err != nil {
		logger.Error("failed to save run history", "error", err)
	}

	return runErr
}

// buildFamily resolves the family and applies project file overrides.
func buildFamily(cfg *config.Config) (*family.Family, error) {
	fam, err := family.ByName(cfg.FamilyName)
	if err != nil {
		return nil, err
	}

	famCfg := cfg.Project.FamilyConfig(cfg.FamilyName)

	fam.Codes = append(fam.Codes, famCfg.ExtraCodes...)
	if len(famCfg.ObsoleteCodes) > 0 {
		if fam.Obsolete == nil {
			fam.Obsolete = make(map[string]string, len(famCfg.ObsoleteCodes))
		}
		for old, repl := range famCfg.ObsoleteCodes {
			fam.Obsolete[old] = repl
		}
	}

	switch famCfg.SortOrder {
	case "", "code":
		// Family default stands.
	case "collated":
		fam.Order = family.SortByCollatedCode
	case "leading":
		fam.Order = family.SortLeadingFirst
	default:
		return nil, fmt.Errorf("unknown sortOrder %q (want code, collated or leading)", famCfg.SortOrder)
	}
	if len(famCfg.LeadingCodes) > 0 {
		fam.LeadingCodes = famCfg.LeadingCodes
	}

	if err := fam.Validate(); err != nil {
		return nil, fmt.Errorf("invalid family configuration: %w", err)
	}
	return fam, nil
}

// buildPool creates the per-site client pool, reading the bot password
// from the environment when the project file references an account.
func buildPool(cfg *config.Config, logger *slog.Logger) (*api.Pool, error) {
	opts := []api.PoolOption{
		api.WithPoolLogger(logger),
		api.WithPoolThrottle(cfg.Throttle),
	}

	creds := cfg.Project.Credentials
	if creds.Username != "" {
		if creds.PasswordEnv == "" {
			return nil, fmt.Errorf("credentials for %s need passwordEnv in the project file", creds.Username)
		}
		secret := os.Getenv(creds.PasswordEnv)
		if secret == "" {
			return nil, fmt.Errorf("environment variable %s is empty; export the BotPassword secret there", creds.PasswordEnv)
		}
		opts = append(opts, api.WithCredentials(creds.Username, secret))
	} else if !cfg.DryRun {
		logger.Warn("no credentials configured; saves will be attempted anonymously")
	}

	return api.NewPool(cfg.UserAgent, cfg.Maxlag, opts...), nil
}

// buildSource turns positional arguments into a title source. Bare
// arguments are page titles; -prefixed arguments select generators.
func buildSource(client *api.Client, args []string) (generator.Iterator, error) {
	factory := generator.NewFactory(client)
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			arg = "-page:" + arg
		}
		if err := factory.Parse(arg); err != nil {
			return nil, err
		}
	}

	source, err := factory.Build()
	if errors.Is(err, generator.ErrNoSource) {
		return nil, errors.New("no origin pages given (pass titles, or -cat:, -file:, -start: after --)")
	}
	return source, err
}

// outputReport writes the run summary in the requested format. With
// --output the report goes to the file and the terminal still gets a
// readable recap.
func outputReport(cfg *config.Config, summary *model.RunSummary) error {
	if summary == nil {
		return nil
	}

	if cfg.ReportFile == "" {
		_, err := reportWriter(cfg, os.Stdout).Write(summary)
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	recap := report.NewSimpleWriter(os.Stdout,
		report.WithVerbose(cfg.Verbose), report.WithShowUnchanged(cfg.Verbose))
	_, err = report.NewMultiWriter(reportWriter(cfg, f), recap).Write(summary)
	return err
}

// reportWriter builds the writer for the requested report format.
func reportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output,
			report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output,
			report.WithVerbose(cfg.Verbose), report.WithShowUnchanged(cfg.Verbose))
	}
}

// saveRunSummary records the run in the local database when enabled.
func saveRunSummary(ctx context.Context, cfg *config.Config, summary *model.RunSummary, logger *slog.Logger) error {
	if !cfg.SaveHistory || summary == nil {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, summary)
	if err != nil {
		return err
	}

	logger.Info("run recorded", "runID", runID, "dir", cfg.DBDir)
	return nil
}
