package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	inputFile   string
	inputURL    string
	timeout     time.Duration
	userAgent   string
	noCache     bool
	noFooter    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	language    string
	nlpBackend  string
	verifierBE  string
	corrector   bool
	llmProvider string
	llmModel    string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check the claims in a text or web page",
	Long: `Check splits the input into claims and, for each claim:
- Finds named entities and noun phrases
- Looks up a short reference fact in Wikipedia
- Classifies whether the fact supports or contradicts the claim
- Optionally suggests a correction for contradicted claims

Input is read from the argument, --file, --url, or standard input.

Example:
  factcheck check "The Eiffel Tower is located in Berlin."
  factcheck check --file article.txt --json report.json --md report.md
  factcheck check --url https://en.wikipedia.org/wiki/Laksa
  factcheck check --corrector --llm-provider openai "Paris is the capital of Italy."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read text from file")
	checkCmd.Flags().StringVarP(&inputURL, "url", "u", "", "fetch and check a web page")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall check timeout")

	addPipelineFlags(checkCmd)
}

// addPipelineFlags registers the flags shared by commands that build a pipeline
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable knowledge cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	cmd.Flags().StringVar(&language, "lang", "", "Wikipedia language edition (e.g. en, de)")
	cmd.Flags().StringVar(&nlpBackend, "nlp", "", "sentence/entity analyzer (rules, service)")
	cmd.Flags().StringVar(&verifierBE, "verifier", "", "inference backend (huggingface, llm)")
	cmd.Flags().BoolVar(&corrector, "corrector", false, "suggest corrections for contradicted claims")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, cohere)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// buildConfig loads the layered configuration and applies changed flags
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("lang") {
		cfg.Knowledge.Language = language
	}
	if flags.Changed("nlp") {
		cfg.NLP.Backend = nlpBackend
	}
	if flags.Changed("verifier") {
		cfg.Verifier.Backend = verifierBE
	}
	if corrector {
		cfg.Corrector.Enabled = true
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log, verbose)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	var report *model.Report
	if inputURL != "" {
		if len(args) > 0 || inputFile != "" {
			return errors.New("--url cannot be combined with text or --file")
		}
		report, err = p.CheckURL(ctx, inputURL)
	} else {
		var text string
		text, err = readInput(args, inputFile, os.Stdin, cfg.Server.MaxInputBytes)
		if err != nil {
			return err
		}
		report, err = p.CheckText(ctx, text)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := p.RenderReport(os.Stdout, report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// readInput returns the text to check from an argument, a file, or stdin,
// rejecting empty input and input larger than maxBytes
func readInput(args []string, path string, stdin io.Reader, maxBytes int) (string, error) {
	var text string
	switch {
	case len(args) > 0 && path != "":
		return "", errors.New("text argument cannot be combined with --file")
	case len(args) > 0:
		text = args[0]
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(io.LimitReader(stdin, int64(maxBytes)+1))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	if len(text) > maxBytes {
		return "", fmt.Errorf("input is %d bytes, limit is %d", len(text), maxBytes)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text to check")
	}
	return text, nil
}
