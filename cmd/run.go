package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/ai"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/ai/gemini"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/display"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/filtering"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/logger"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	PromptYes                 = "Yes"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptReportByWriters     = "Report by writers"
	PromptManualApply         = "Pick posts in manual mode"
	PromptAppendToExcludeFile = "Append all posts to exclude file"
	PromptPostsToFile         = "Dump matched posts to file"
	PromptApply               = "Send accompany request"
	PromptShowImage           = "Show image URL"
	defaultFallbackMessage    = "안녕하세요! 여행 일정이 잘 맞는 것 같아 동행 신청 드려요."
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportByWriters, PromptManualApply, PromptPostsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the matetrip main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("include-own-posts", "f", false, "do not exclude posts written by yourself")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation if found suitable posts")
	runCmd.Flags().StringP("exclude-file", "e", "", "special file with posts to exclude. Default is unset.")

	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the matetrip cli", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading matetrip token",
			zap.Error(err),
			zap.String("hint", "set MATETRIP_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	mt := matetrip.New(ctx, logger, token)

	if config.APIURL != "" {
		mt.APIURL = config.APIURL
	}
	if config.UserAgent != "" {
		mt.UserAgent = config.UserAgent
	}

	// Matching only makes sense for an authenticated viewer; bail out early
	// instead of firing the search calls.
	profile, err := mt.MyProfile()
	if err != nil {
		logger.Fatal("getting my profile", zap.Error(err))
	}

	logger.Info("authenticated",
		zap.String("user_id", profile.ID),
		zap.String("nickname", profile.Nickname),
	)

	posts, candidates, err := fetchSources(mt, config, profile)
	if err != nil {
		logger.Fatal("fetching posts and matching candidates", zap.Error(err))
	}

	logger.Info("fetched sources",
		zap.Int("posts", posts.Len()),
		zap.Int("candidates", candidates.Len()),
	)

	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matching candidates found"))
		return
	}

	entries := matching.Reconcile(candidates.Items, posts.Items)

	logger.Info("reconciled matching candidates", zap.Int("entries", len(entries)))

	entries, err = runFilters(ctx, cmd, mt, config, profile, logger, entries)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(entries) == 0 {
		logger.Info("exiting", zap.String("reason", "no posts left after filters"))
		return
	}

	composer, err := prepareComposer(ctx, config.Greeting, logger)
	if err != nil {
		logger.Warn("skipping greeting composer", zap.Error(err))
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matched posts", zap.Int("count", len(entries)))

		if err := handleAction(ctx, action, mt, logger, config, composer, profile, entries); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// fetchSources retrieves the post catalog and the matching candidates
// concurrently; reconciliation must not start until both are available.
func fetchSources(mt *matetrip.Client, config *Config, profile *matetrip.Profile) (*matetrip.Posts, *matetrip.Candidates, error) {
	var (
		posts      *matetrip.Posts
		candidates *matetrip.Candidates
	)

	g := new(errgroup.Group)

	g.Go(func() error {
		var err error
		if posts, err = mt.SearchPosts(config.Search); err != nil {
			return fmt.Errorf("search posts: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if candidates, err = mt.SearchMatches(profile.ID); err != nil {
			return fmt.Errorf("search matches: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return posts, candidates, nil
}

func runFilters(ctx context.Context, cmd *cobra.Command, mt *matetrip.Client, config *Config, profile *matetrip.Profile, logger *zap.Logger, entries []matching.Entry) ([]matching.Entry, error) {
	steps := []filtering.Filter{
		filtering.NewStatus(),
		filtering.NewOwnPosts(),
		filtering.NewMinScore(),
		filtering.NewExcludeFile(),
	}

	if cmd != nil {
		flag := cmd.Flag("include-own-posts")
		if flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			filtering.DisableByName(steps, "own_posts", "skip requested via flag")
		}
	}

	cfg := &filtering.Config{
		Statuses:    config.Statuses,
		MinScore:    config.MinScore,
		ExcludeFile: strings.TrimSpace(viper.GetString("exclude-file")),
	}
	deps := filtering.Deps{
		Client: mt,
		Logger: logger,
		Viewer: profile,
	}

	return filtering.Run(ctx, cfg, deps, steps, entries)
}

func handleAction(ctx context.Context, action string, mt *matetrip.Client, logger *zap.Logger, config *Config, composer ai.Composer, profile *matetrip.Profile, entries []matching.Entry) error {
	switch action {
	case PromptYes:
		if err := applyAll(ctx, mt, logger, config, composer, profile, entries); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualApply:
		return manualApply(ctx, mt, logger, config, composer, profile, entries)
	case PromptReportByWriters:
		pretty, _ := json.MarshalIndent(display.ReportByWriter(entries), "", "  ")
		logger.Info(string(pretty), zap.Int("posts count", len(entries)))
		return nil
	case PromptPostsToFile:
		posts := entriesToPosts(entries)
		filename, err := posts.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("matetrip token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "matetrip token",
		File: tokenFile,
	})
}

func manualApply(ctx context.Context, mt *matetrip.Client, logger *zap.Logger, config *Config, composer ai.Composer, profile *matetrip.Profile, entries []matching.Entry) error {
	for {
		rows := display.Rows(entries)

		items := make([]string, 0, len(rows))
		for _, row := range rows {
			items = append(items, row.Label())
		}

		excludeFile := viper.GetString("exclude-file")
		if excludeFile != "" && len(entries) != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		postPrompt := promptui.Select{
			Label: "Choose a post and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, postSelected, err := postPrompt.Run()
		if err != nil {
			return err
		}

		switch postSelected {
		case PromptBack:
			return nil
		case PromptAppendToExcludeFile:
			excluded, err := matetrip.GetExcludedPostsFromFile(excludeFile)
			if err != nil {
				return err
			}

			excluded.Append(entriesToPosts(entries).ToExcluded())

			if err = excluded.ToFile(excludeFile); err != nil {
				return err
			}

			logger.Info("appended to exclude file", zap.String("filename", excludeFile))

			entries = nil
		default:
			entry := entries[idx]

			if err := handleEntry(ctx, mt, logger, config, composer, profile, entry); err != nil {
				return err
			}

			entries = removeEntry(entries, entry.Post.ID)
		}
	}
}

func handleEntry(ctx context.Context, mt *matetrip.Client, logger *zap.Logger, config *Config, composer ai.Composer, profile *matetrip.Profile, entry matching.Entry) error {
	entryPrompt := promptui.Select{
		Label: fmt.Sprintf("%s / %s", entry.Post.Title, entry.Post.WriterNickname()),
		Items: []string{PromptApply, PromptShowImage, PromptBack},
	}

	_, action, err := entryPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptBack:
		return nil
	case PromptShowImage:
		if entry.Post.ImageID == "" {
			logger.Info("post has no image", zap.String("post_id", entry.Post.ID))
			return nil
		}
		url, err := mt.ContentURL(entry.Post.ImageID)
		if err != nil {
			return fmt.Errorf("resolving image url: %w", err)
		}
		logger.Info("image url", zap.String("post_id", entry.Post.ID), zap.String("url", url))
		return nil
	default:
		return apply(ctx, mt, logger, config, composer, profile, entry)
	}
}

func applyAll(ctx context.Context, mt *matetrip.Client, logger *zap.Logger, config *Config, composer ai.Composer, profile *matetrip.Profile, entries []matching.Entry) error {
	for _, entry := range entries {
		if err := apply(ctx, mt, logger, config, composer, profile, entry); err != nil {
			return err
		}
	}

	logger.Info("successfully requested to accompany", zap.Int("count", len(entries)))
	return nil
}

func apply(ctx context.Context, mt *matetrip.Client, logger *zap.Logger, config *Config, composer ai.Composer, profile *matetrip.Profile, entry matching.Entry) error {
	message := composeMessage(ctx, logger, config, composer, profile, entry)

	if err := mt.RequestAccompany(&matetrip.Posts{Items: []*matetrip.Post{entry.Post}}, message); err != nil {
		return err
	}

	logger.Info("successfully requested to accompany",
		zap.String("post_id", entry.Post.ID),
		zap.String("post_title", entry.Post.Title),
	)

	return nil
}

func composeMessage(ctx context.Context, logger *zap.Logger, config *Config, composer ai.Composer, profile *matetrip.Profile, entry matching.Entry) string {
	if composer != nil {
		greeting, err := composer.Compose(ctx, profile, entry)
		if err == nil && greeting.Message != "" {
			return greeting.Message
		}
		logger.Warn("greeting composer failed, falling back to configured message",
			zap.String("post_id", entry.Post.ID),
			zap.Error(err),
		)
	}

	message := ""
	if config.Accompany != nil {
		message = config.Accompany.Message
	}

	if message == "" {
		message = defaultFallbackMessage
		logger.Warn("falling back to default built-in message",
			zap.String("post_id", entry.Post.ID),
			zap.String("hint", "specify message in accompany section"),
		)
	}

	return message
}

func prepareComposer(ctx context.Context, cfg *GreetingConfig, logger *zap.Logger) (ai.Composer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported greeting provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when greeting is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set greeting.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewComposer(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}

func entriesToPosts(entries []matching.Entry) *matetrip.Posts {
	posts := &matetrip.Posts{}
	for _, entry := range entries {
		posts.Items = append(posts.Items, entry.Post)
	}
	return posts
}

func removeEntry(entries []matching.Entry, postID string) []matching.Entry {
	var left []matching.Entry
	for _, entry := range entries {
		if entry.Post.ID == postID {
			continue
		}
		left = append(left, entry)
	}
	return left
}
