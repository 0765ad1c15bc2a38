package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/uniguide-ai/uniguide/internal/agent"
	"github.com/uniguide-ai/uniguide/internal/ai/gemini"
	"github.com/uniguide-ai/uniguide/internal/college"
	"github.com/uniguide-ai/uniguide/internal/logger"
	"github.com/uniguide-ai/uniguide/internal/profile"
	"github.com/uniguide-ai/uniguide/internal/search"
	"github.com/uniguide-ai/uniguide/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	sourceStatic = "static"
	sourceLive   = "live"

	greeting = "Hi! I'm UniGuide AI, your college guidance assistant. " +
		"Ask me about universities, admissions, essays or anything college related. " +
		"Type 'exit' to finish."
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Start a guidance session, or answer a single message and exit",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		chat(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("source", "s", sourceStatic, "college data source: static or live")

	viper.BindPFlag("source", chatCmd.Flags().Lookup("source"))
}

// chat is the main command for the cli.
func chat(_ *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting uniguide", zap.String("version", version))

	guide, err := buildAgent(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the assistant", zap.Error(err))
	}

	if len(args) == 1 {
		fmt.Println(guide.Process(ctx, args[0]))
		return
	}

	fmt.Println(greeting)

	prompt := promptui.Prompt{Label: "You"}

	for {
		message, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "session closed"))
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}

		if strings.EqualFold(message, "exit") || strings.EqualFold(message, "quit") {
			fmt.Println("Good luck with your applications!")
			return
		}

		fmt.Println()
		fmt.Println(guide.Process(ctx, message))
		fmt.Println()
	}
}

// buildAgent wires the oracle, the college repository, the scorer and the
// extractor into a session agent.
func buildAgent(ctx context.Context, config *Config, logger *zap.Logger) (*agent.Agent, error) {
	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	repo, err := newRepository(config, generator, logger)
	if err != nil {
		return nil, err
	}

	unscored := college.DefaultUnscored
	if config.Scoring != nil && config.Scoring.UnscoredDefault > 0 {
		unscored = config.Scoring.UnscoredDefault
	}

	extractor := profile.NewExtractor(generator, logger)

	return agent.New(extractor, repo, college.NewScorer(unscored), generator, logger), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	keyFile := viper.GetString("ai.gemini.api-key-file")
	model := ""
	var timeout time.Duration
	if cfg.Gemini != nil {
		if cfg.Gemini.APIKeyFile != "" {
			keyFile = cfg.Gemini.APIKeyFile
		}
		model = cfg.Gemini.Model
		timeout = time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := log.With(logger.OracleFields("gemini", model)...)

	return gemini.NewGenerator(ctx, apiKey, model, timeout, genLogger)
}

// newRepository picks the college data source. Static needs nothing; live
// needs the generator for extraction and optionally a Brave key for search.
func newRepository(config *Config, generator *gemini.Generator, logger *zap.Logger) (college.Repository, error) {
	source := strings.TrimSpace(strings.ToLower(viper.GetString("source")))
	if source == "" && config.Source != "" {
		source = strings.TrimSpace(strings.ToLower(config.Source))
	}

	switch source {
	case "", sourceStatic:
		return college.NewStatic(logger), nil
	case sourceLive:
		braveKey, err := secrets.LoadOptional(secrets.Source{
			Name: "brave api key",
			File: viper.GetString("search.brave-api-key-file"),
		})
		if err != nil {
			return nil, fmt.Errorf("loading brave api key: %w", err)
		}

		return college.NewLive(search.New(logger, braveKey), generator, logger), nil
	default:
		return nil, fmt.Errorf("unsupported college source: %s", source)
	}
}
