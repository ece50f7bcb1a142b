package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhi-wadhwa/bp-flow/internal/cache"
	"github.com/abhi-wadhwa/bp-flow/internal/classify"
	"github.com/abhi-wadhwa/bp-flow/internal/flow"
	"github.com/abhi-wadhwa/bp-flow/internal/llm"
	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

var (
	roundPath   string
	speakerRole string
	applyResult bool
	cmdTimeout  time.Duration
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify a single debate point against a flowed round",
	Long: `Classify determines the rhetorical role of one submitted point (claim,
mechanism, impact, or refutation), which existing point it attaches to or
rebuts, and which clash theme it belongs to.

Without --llm the deterministic keyword heuristic runs alone. With --llm
the remote model classifies and its output is validated against the round
before being trusted; any failure falls back to the heuristic.

Example:
  bpflow classify "because tariffs fall, imports get cheaper" --speaker DPM --round round.yaml
  bpflow classify "however that ignores retaliation" --speaker LO --round round.yaml --llm --apply`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&roundPath, "round", "", "round YAML file with existing points")
	classifyCmd.Flags().StringVar(&speakerRole, "speaker", "PM", "speaker role (PM, LO, DPM, DLO, MG, MO, GW, OW)")
	classifyCmd.Flags().BoolVar(&applyResult, "apply", false, "commit the classification into the round file")
	classifyCmd.Flags().DurationVar(&cmdTimeout, "timeout", 30*time.Second, "overall timeout")

	classifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable remote model classification")
	classifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	classifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runClassify(cmd *cobra.Command, args []string) error {
	text := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	speaker, err := resolveSpeaker(speakerRole)
	if err != nil {
		return err
	}

	round, err := loadRound(roundPath)
	if err != nil {
		return err
	}

	cfg := buildConfig()
	classifier, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	graph := flow.NewGraph(flow.NewSequentialIDs())
	graph.Load(round.Points)

	if verbose {
		fmt.Fprintf(os.Stderr, "Classifying for %s (%s), speech #%d against %d existing points\n",
			speaker.Role, speaker.Team, speaker.Order, len(round.Points))
	}

	result := classifier.Classify(ctx, text, speaker.Role, speaker.Team, speaker.Order, graph.Points(), graph.Themes())

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(encoded))

	if applyResult {
		if roundPath == "" {
			return fmt.Errorf("--apply requires --round")
		}
		id, created := graph.Apply(flow.Submission{
			Text:        text,
			Speaker:     speaker.Role,
			Team:        speaker.Team,
			SpeechOrder: speaker.Order,
		}, result)
		round.Points = graph.Points()
		if err := saveRound(roundPath, round); err != nil {
			return err
		}
		if verbose {
			if created {
				fmt.Fprintf(os.Stderr, "✓ Created point %s\n", id)
			} else {
				fmt.Fprintf(os.Stderr, "✓ Annotated point %s\n", id)
			}
		}
	}

	return nil
}

// buildConfig assembles configuration from defaults, flags and environment
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			cfg.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
		case "ollama":
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}

	return cfg
}

// buildClassifier wires the classifier from configuration: provider,
// result cache and provider rate limit
func buildClassifier(cfg *model.Config) (*classify.Classifier, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	opts := []classify.Option{
		classify.WithVerbose(cfg.Output.Verbose),
		classify.WithRateLimit(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst),
	}
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		opts = append(opts, classify.WithCache(cache.NewMemoryCache(ttl, 2*ttl), ttl))
	}

	return classify.NewClassifier(provider, classify.DefaultKeywords(), cfg.Thresholds, opts...), nil
}
