package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	openai "github.com/sashabaranov/go-openai"

	"github.com/eigo-practice/backend/internal/models"
)

// CallOptions bound a single model call. Generation runs hot for
// variety; evaluation runs cool for consistency.
type CallOptions struct {
	MaxTokens   int
	Temperature float64
}

var (
	// GenerationOptions is used for the problem-generation call.
	GenerationOptions = CallOptions{MaxTokens: 2000, Temperature: 0.8}
	// EvaluationOptions is used for the translation-evaluation call.
	EvaluationOptions = CallOptions{MaxTokens: 1500, Temperature: 0.3}
)

// LLMClient is the interface every provider implementation satisfies.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string, opts CallOptions) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds translation-practice methods.
type Generator struct {
	llm     LLMClient
	model   string
	timeout time.Duration
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	switch os.Getenv("LLM_PROVIDER") {
	case "cli":
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Generator using Claude CLI (local plan)")
	case "openai":
		model = os.Getenv("OPENAI_MODEL")
		if model == "" {
			model = openai.GPT4oMini
		}
		llm = NewOpenAIClient(model)
		log.Println("Generator using OpenAI API:", model)
	case "mock":
		llm = NewMockClient()
		log.Println("Generator using mock data")
	default:
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	timeout := 60 * time.Second
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return &Generator{llm: llm, model: model, timeout: timeout}
}

// ProviderConfigured reports whether a live model provider can actually
// serve requests. The API providers need their key; the CLI and mock
// providers carry their own credentials or none.
func ProviderConfigured() bool {
	switch os.Getenv("LLM_PROVIDER") {
	case "cli", "mock":
		return true
	case "openai":
		return os.Getenv("OPENAI_API_KEY") != ""
	default:
		return os.Getenv("ANTHROPIC_API_KEY") != ""
	}
}

// NewGeneratorWithClient builds a Generator around an explicit client.
// Tests and the verification harness use this.
func NewGeneratorWithClient(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model, timeout: 60 * time.Second}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateProblem asks the model for one practice sentence at the given
// level. recent lists sentences already served this session so the model
// avoids reproducing their structure or vocabulary.
func (g *Generator) GenerateProblem(ctx context.Context, level models.DifficultyLevel, recent []string) (*models.PracticeItem, *LLMResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	systemPrompt := GenerationSystemPrompt()
	userPrompt := BuildGenerationPrompt(level, recent)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt, GenerationOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("generate problem: %w", err)
	}

	item, err := ParseProblem(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse problem response: %w", err)
	}

	return item, resp, nil
}

// EvaluateTranslation asks the model to grade a submitted translation.
func (g *Generator) EvaluateTranslation(ctx context.Context, japaneseSentence, userTranslation string, level models.DifficultyLevel) (*models.EvaluationResult, *LLMResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	systemPrompt := EvaluationSystemPrompt()
	userPrompt := BuildEvaluationPrompt(japaneseSentence, userTranslation, level)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt, EvaluationOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate translation: %w", err)
	}

	result, err := ParseEvaluation(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse evaluation response: %w", err)
	}

	return result, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string, opts CallOptions) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: param.NewOpt(opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// ── OpenAIClient — OpenAI-Compatible Services ──────────────

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(model string) *OpenAIClient {
	cfg := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string, opts CallOptions) (*LLMResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      resp.Choices[0].Message.Content,
		PromptTokens: resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
