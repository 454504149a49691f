package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"occupancy/constants"
	"occupancy/models"
	"occupancy/services/logger"
)

const reportSystemPrompt = "You are a concise hotel management AI. Keep responses brief and professional."

// Completer answers one prompt. It is the seam between the report and the
// model provider.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type openAICompleter struct {
	client *openai.Client
	model  string
}

func (c *openAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// reportRoom is one row of the data handed to the model.
type reportRoom struct {
	Room     string `json:"room"`
	Status   string `json:"status"`
	Guest    string `json:"guest"`
	TimeLeft int64  `json:"timeLeft"`
}

// ReportGenerator writes a short executive summary of a property's rooms.
// It never returns an error: failures become fixed fallback text.
type ReportGenerator struct {
	completer Completer
	timeout   time.Duration
	now       func() time.Time
	logger    logger.Logger
}

type ReportOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Now     func() time.Time
	Logger  logger.Logger
	// Completer overrides the OpenAI client.
	Completer Completer
}

func NewReportGenerator(opts ReportOptions) *ReportGenerator {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop{}
	}
	if opts.Model == "" {
		opts.Model = string(shared.ChatModelGPT4oMini)
	}
	c := opts.Completer
	if c == nil && opts.APIKey != "" {
		client := openai.NewClient(option.WithAPIKey(opts.APIKey))
		c = &openAICompleter{client: &client, model: opts.Model}
	}
	return &ReportGenerator{completer: c, timeout: opts.Timeout, now: opts.Now, logger: opts.Logger}
}

// BuildReportPrompt renders rooms the way the summary model expects them.
func BuildReportPrompt(rooms []models.Room, now time.Time) (string, error) {
	data := make([]reportRoom, len(rooms))
	for i, r := range rooms {
		guest := r.GuestName
		if guest == "" {
			guest = "N/A"
		}
		data[i] = reportRoom{
			Room:     r.RoomNumber,
			Status:   string(r.Status),
			Guest:    guest,
			TimeLeft: r.Remaining(now).Milliseconds(),
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`As a professional hotel operations manager, provide a very brief (2-3 sentences) executive summary of the current room occupancy status.
Current Data: %s
Highlight if the hotel is nearly full or mostly empty, and maybe a professional tip for the front desk.`, raw), nil
}

func (g *ReportGenerator) Generate(ctx context.Context, rooms []models.Room) string {
	if g.completer == nil {
		g.logger.Debug("Report requested but no model is configured")
		return constants.DefaultReportFail
	}
	prompt, err := BuildReportPrompt(rooms, g.now())
	if err != nil {
		g.logger.Error("Build report prompt: %v", err)
		return constants.DefaultReportFail
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.completer.Complete(ctx, reportSystemPrompt, prompt)
	if err != nil {
		g.logger.Error("Report generation failed: %v", err)
		return constants.DefaultReportFail
	}
	if text = strings.TrimSpace(text); text == "" {
		return constants.EmptyReport
	}
	return text
}
