package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aletho/quaero/internal/agent"
	"github.com/aletho/quaero/internal/config"
	"github.com/aletho/quaero/internal/fetch"
	"github.com/aletho/quaero/internal/llm"
	"github.com/aletho/quaero/internal/search"
	"github.com/aletho/quaero/internal/synth"
)

var (
	flagConfig     string
	flagVerbose    bool
	flagSave       string
	flagNoSearch   bool
	flagSeeds      []string
	flagForceLocal bool
	flagMaxResults int
	flagModel      string
	flagProfile    string
)

var rootCmd = &cobra.Command{
	Use:   "quaero \"question\"",
	Short: "Research assistant: search, fetch, and synthesize an answer",
	Long: `quaero answers a question by searching the web (or using seed URLs you
provide), fetching and extracting the sources, and synthesizing a cited
answer with an LLM. When the model is unreachable it degrades to a local
extractive summary instead of failing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoot,
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config overlay")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&flagSave, "save", "", "Also write the answer to this path")
	rootCmd.Flags().BoolVar(&flagNoSearch, "no-search", false, "Disable web search; seed URLs only")
	rootCmd.Flags().StringArrayVar(&flagSeeds, "seed", nil, "Seed URL to use as a source (repeatable)")
	rootCmd.Flags().BoolVar(&flagForceLocal, "force-local", false, "Skip the LLM and answer with the local summarizer")
	rootCmd.Flags().IntVar(&flagMaxResults, "max-results", agent.DefaultMaxResults, "Maximum number of sources")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Override the chat model")
	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "Query profile to apply (e.g. pfas)")

	rootCmd.AddCommand(serveCmd, scrapeCmd, chartCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	setupLogLevel()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	if query == "" && len(flagSeeds) == 0 {
		_ = cmd.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}

	a := buildAgent(cfg)

	res := a.Run(cmd.Context(), agent.Request{
		Query:       query,
		Seeds:       flagSeeds,
		AllowSearch: !flagNoSearch,
		ForceLocal:  flagForceLocal,
		MaxResults:  flagMaxResults,
		SavePath:    flagSave,
		Profile:     flagProfile,
	})

	fmt.Println(res.Answer)
	if len(res.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range res.Sources {
			fmt.Println("  - " + s)
		}
	}
	return nil
}

// buildAgent wires the pipeline from configuration. Tavily joins the
// provider chain only when a key is present; DuckDuckGo is always the
// fallback, throttled to one request every two seconds.
func buildAgent(cfg *config.Config) *agent.Agent {
	log.Info().
		Str("model", cfg.Model).
		Str("openai_key", config.MaskedKey(cfg.OpenAIAPIKey)).
		Str("tavily_key", config.MaskedKey(cfg.TavilyAPIKey)).
		Msg("configuration loaded")

	var providers []search.Provider
	if cfg.TavilyAPIKey != "" {
		providers = append(providers, &search.Tavily{APIKey: cfg.TavilyAPIKey})
	}
	providers = append(providers, &search.DuckDuckGo{
		Gate: search.NewIntervalGate(2 * time.Second),
	})

	return &agent.Agent{
		Finder:  &search.Finder{Providers: providers},
		Fetcher: &fetch.Client{HTTPClient: &http.Client{}},
		Synth: &synth.Synthesizer{
			Client: llm.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
			Model:  cfg.Model,
		},
	}
}

func setupLogLevel() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
