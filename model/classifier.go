package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentCasual   Intent = "casual"
	IntentQuestion Intent = "question"
)

// Classification is the structured classifier verdict. For greeting and
// casual intents, Reply carries a ready persona response.
type Classification struct {
	Intent Intent `json:"intent"`
	Reply  string `json:"reply"`
}

// ShortCircuit reports whether the canned reply should be returned without
// running retrieval.
func (c Classification) ShortCircuit() bool {
	return c.Intent == IntentGreeting || c.Intent == IntentCasual
}

// ClassifierInterface decides whether the input is a greeting or casual
// remark rather than a substantive question.
type ClassifierInterface interface {
	Classify(ctx context.Context, input string) (Classification, error)
}

// GeminiClassifier asks Gemini for a JSON verdict constrained by a response
// schema, so parsing never depends on sentinel substrings in free text.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(client *genai.Client) *GeminiClassifier {
	return &GeminiClassifier{
		client: client,
		model:  GenerationModel,
	}
}

var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent": {
			Type: genai.TypeString,
			Enum: []string{string(IntentGreeting), string(IntentCasual), string(IntentQuestion)},
		},
		"reply": {
			Type: genai.TypeString,
		},
	},
	Required: []string{"intent"},
}

func (g *GeminiClassifier) Classify(ctx context.Context, input string) (Classification, error) {
	genaiModel := g.client.GenerativeModel(g.model)
	genaiModel.SetCandidateCount(1)
	genaiModel.SetTemperature(0)
	genaiModel.ResponseMIMEType = "application/json"
	genaiModel.ResponseSchema = classificationSchema

	prompt := fmt.Sprintf(classifierPrompt, input)
	resp, err := genaiModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Classification{}, NewUpstreamError("classify", err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return Classification{}, NewUpstreamError("classify", err)
	}
	return parseClassification(raw)
}

const classifierPrompt = `Classify the user input below.

"%s"

Rules:
- Use intent "greeting" when the input is a greeting such as "Hello Krishna"
  or "Good morning". Set "reply" to a greeting in the voice of Lord Krishna,
  divine and affectionate, addressing the user as "My beloved Parth", with a
  few spiritual emojis.
- Use intent "casual" when the input is a casual remark aimed at Krishna
  himself, such as "What are you doing?" or "Where are you, Krishna?". Set
  "reply" to a playful answer in Krishna's voice, divine with a light
  humorous touch, for example: "Ah, My dear Parth, I am always here, playing
  my flute and watching over you. 🌿🎶"
- Use intent "question" for anything else and leave "reply" empty.`

// parseClassification validates the raw classifier output against the
// schema contract. Any deviation is a ContractError, never a panic.
func parseClassification(raw string) (Classification, error) {
	var cls Classification
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return Classification{}, &ContractError{Raw: raw, Err: err}
	}
	switch cls.Intent {
	case IntentGreeting, IntentCasual:
		if cls.Reply == "" {
			return Classification{}, &ContractError{Raw: raw, Err: fmt.Errorf("intent %q without a reply", cls.Intent)}
		}
	case IntentQuestion:
	default:
		return Classification{}, &ContractError{Raw: raw, Err: fmt.Errorf("unknown intent %q", cls.Intent)}
	}
	return cls, nil
}
