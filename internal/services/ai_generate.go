package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/validation"

	"github.com/google/uuid"
)

var (
	// ErrMissingCredential means no recognized configuration slot holds an
	// API key. A deployment problem for the quiz author to fix, not a
	// transient failure.
	ErrMissingCredential = errors.New("no AI credential configured")
	// ErrGenerationFailed wraps every other generation failure: network,
	// HTTP status, malformed JSON, schema mismatch.
	ErrGenerationFailed = errors.New("quiz generation failed")
)

// outcomePalette cycles across generated outcomes; the model is not trusted
// to pick valid presentation classes.
var outcomePalette = []string{"bg-neo-coral", "bg-neo-mint", "bg-neo-lemon", "bg-neo-periwinkle"}

const generationSystemPrompt = `You are a creative viral content generator.
Create fun, engaging, and slightly edgy personality quizzes.
The output must be strictly JSON matching the schema.
Ensure questions are short and answers map clearly to specific outcomes.
Include 4 distinct outcomes and 6 questions, each question with 4 answers.`

// generationResponseSchema constrains the model's reply shape. Kept as raw
// JSON because that is what goes on the wire.
const generationResponseSchema = `{
  "type": "OBJECT",
  "properties": {
    "title": {"type": "STRING"},
    "description": {"type": "STRING"},
    "outcomes": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "id": {"type": "STRING"},
          "title": {"type": "STRING"},
          "description": {"type": "STRING"},
          "image": {"type": "STRING", "description": "A single emoji representing this outcome"}
        },
        "required": ["id", "title", "description", "image"]
      }
    },
    "questions": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "text": {"type": "STRING"},
          "answers": {
            "type": "ARRAY",
            "items": {
              "type": "OBJECT",
              "properties": {
                "text": {"type": "STRING"},
                "outcomeId": {"type": "STRING", "description": "Must match one of the outcome IDs defined above"}
              },
              "required": ["text", "outcomeId"]
            }
          }
        },
        "required": ["text", "answers"]
      }
    }
  },
  "required": ["title", "description", "outcomes", "questions"]
}`

type AIGenerateService struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewAIGenerateService(apiKey, apiURL, model string) *AIGenerateService {
	return &AIGenerateService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
	}
}

func (s *AIGenerateService) IsAvailable() bool {
	return s.apiKey != ""
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// generatedQuiz is the raw shape the model returns before post-processing.
type generatedQuiz struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Outcomes    []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       string `json:"image"`
	} `json:"outcomes"`
	Questions []struct {
		Text    string `json:"text"`
		Answers []struct {
			Text      string `json:"text"`
			OutcomeID string `json:"outcomeId"`
		} `json:"answers"`
	} `json:"questions"`
}

// GenerateQuiz asks the model for a personality quiz about the topic and
// normalizes the reply into the internal quiz shape. The returned quiz is a
// draft: not persisted, owned by nobody yet.
func (s *AIGenerateService) GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error) {
	if !s.IsAvailable() {
		return nil, ErrMissingCredential
	}

	reqBody := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: "Create a viral personality quiz about: " + validation.Sanitize(topic) + "."}}},
		},
		SystemInstruction: &content{Parts: []part{{Text: generationSystemPrompt}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   json.RawMessage(generationResponseSchema),
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrGenerationFailed, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.apiURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGenerationFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d: %s", ErrGenerationFailed, resp.StatusCode, string(body))
	}

	var apiResp generateContentResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: parse API response: %v", ErrGenerationFailed, err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("%w: API error: %s", ErrGenerationFailed, apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from model", ErrGenerationFailed)
	}

	var raw generatedQuiz
	if err := json.Unmarshal([]byte(apiResp.Candidates[0].Content.Parts[0].Text), &raw); err != nil {
		return nil, fmt.Errorf("%w: model returned invalid JSON: %v", ErrGenerationFailed, err)
	}
	if len(raw.Outcomes) == 0 || len(raw.Questions) == 0 {
		return nil, fmt.Errorf("%w: model returned an incomplete quiz", ErrGenerationFailed)
	}

	return normalizeGenerated(raw), nil
}

// normalizeGenerated assigns deterministic local ids to questions and
// answers (model-issued ids are not trusted) and cycles the color palette
// across outcomes. Outcome ids are kept so answer references stay valid.
func normalizeGenerated(raw generatedQuiz) *models.Quiz {
	quiz := &models.Quiz{
		ID:          uuid.NewString(),
		Title:       validation.Sanitize(raw.Title),
		Description: validation.Sanitize(raw.Description),
		Author:      "AI Creator",
		CreatedAt:   time.Now().UnixMilli(),
		Plays:       0,
	}

	for i, o := range raw.Outcomes {
		quiz.Outcomes = append(quiz.Outcomes, models.Outcome{
			ID:          o.ID,
			Title:       validation.Sanitize(o.Title),
			Description: validation.Sanitize(o.Description),
			Image:       o.Image,
			ColorClass:  outcomePalette[i%len(outcomePalette)],
		})
	}

	for i, q := range raw.Questions {
		question := models.Question{
			ID:   fmt.Sprintf("q%d", i),
			Text: validation.Sanitize(q.Text),
		}
		for j, a := range q.Answers {
			question.Answers = append(question.Answers, models.Answer{
				ID:        fmt.Sprintf("q%d_a%d", i, j),
				Text:      validation.Sanitize(a.Text),
				OutcomeID: a.OutcomeID,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}
