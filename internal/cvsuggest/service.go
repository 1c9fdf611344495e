// Package cvsuggest generates HR-style CV text. A completion provider is
// used when configured; otherwise a deterministic local generator produces
// the text, so the endpoint works without any external service.
package cvsuggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Personal holds the applicant's contact block.
type Personal struct {
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

// Education is one education entry on the CV.
type Education struct {
	ID      string `json:"id,omitempty"`
	School  string `json:"school"`
	Degree  string `json:"degree"`
	Period  string `json:"period"`
	Details string `json:"details"`
}

// Experience is one work experience entry on the CV.
type Experience struct {
	ID           string `json:"id,omitempty"`
	Role         string `json:"role"`
	Company      string `json:"company"`
	Period       string `json:"period"`
	Location     string `json:"location"`
	Achievements string `json:"achievements"`
}

// Language is one language proficiency entry.
type Language struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Request is the CV payload plus the target selector. Target is either
// "summary" or "experience:<id>".
type Request struct {
	Personal   Personal     `json:"personal"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Languages  []Language   `json:"languages"`
	Skills     []string     `json:"skills"`
	Hobbies    []string     `json:"hobbies"`
	Target     string       `json:"target"`
}

// Config holds the optional completion provider credentials.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the provider endpoint, used by tests.
	BaseURL string
}

const (
	defaultCompletionAPI   = "https://api.openai.com/v1"
	defaultCompletionModel = "gpt-4o-mini"
)

// Service suggests CV text for a given target section.
type Service struct {
	client *resty.Client
	config Config
}

// NewService creates a Service. An empty APIKey disables the remote
// provider and every suggestion comes from the local generator.
func NewService(config Config) *Service {
	if config.BaseURL == "" {
		config.BaseURL = defaultCompletionAPI
	}
	if config.Model == "" {
		config.Model = defaultCompletionModel
	}
	return &Service{
		client: resty.New().SetTimeout(20 * time.Second),
		config: config,
	}
}

// Suggest returns HR-style text for the requested target. Provider failures
// never surface to the caller; the local generator is the fallback.
func (s *Service) Suggest(ctx context.Context, req *Request) string {
	if s.config.APIKey == "" {
		return fallbackGenerate(req)
	}
	text, err := s.complete(ctx, req)
	if err != nil || text == "" {
		return fallbackGenerate(req)
	}
	return text
}

func (s *Service) complete(ctx context.Context, req *Request) (string, error) {
	prompt := buildPrompt(req)
	body := map[string]any{
		"model": s.config.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
		"max_tokens":  220,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(s.config.BaseURL + "/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("completion provider returned %d", resp.StatusCode())
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func buildPrompt(req *Request) string {
	var b strings.Builder
	b.WriteString("You are an HR assistant in Switzerland. Write concise, professional text.\n")
	fmt.Fprintf(&b, "Target: %s\n", req.Target)
	writeJSONLine(&b, "Personal", req.Personal)
	writeJSONLine(&b, "Education", req.Education)
	writeJSONLine(&b, "Experience", req.Experience)
	writeJSONLine(&b, "Languages", req.Languages)
	writeJSONLine(&b, "Skills", req.Skills)
	b.WriteString("Rules: 1) Avoid buzzwords; 2) Use neutral tone; 3) Keep it under 90 words; " +
		"4) For experience target, produce 3 bullet points starting with verbs.")
	return b.String()
}

func writeJSONLine(b *strings.Builder, label string, v any) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, encoded)
}

// fallbackGenerate produces simple Swiss-style phrasing without any
// external service. The output language matches the app audience.
func fallbackGenerate(req *Request) string {
	if strings.HasPrefix(req.Target, "experience") {
		return fallbackExperience(req)
	}
	return fallbackSummary(req)
}

func fallbackExperience(req *Request) string {
	var targetID string
	if _, id, ok := strings.Cut(req.Target, ":"); ok {
		targetID = id
	}

	var exp *Experience
	if targetID == "" {
		if len(req.Experience) > 0 {
			exp = &req.Experience[0]
		}
	} else {
		for i := range req.Experience {
			if req.Experience[i].ID == targetID {
				exp = &req.Experience[i]
				break
			}
		}
	}
	if exp == nil {
		return ""
	}

	var parts []string
	if exp.Role != "" {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s у %s", exp.Role, exp.Company)))
	}
	if exp.Period != "" {
		parts = append(parts, fmt.Sprintf("(%s)", exp.Period))
	}
	header := strings.Join(parts, " ")
	bullets := []string{
		"Відповідав(-ла) за якісне та своєчасне виконання задач.",
		"Покращив(-ла) процеси та взаємодію в команді, дотримуючись принципів прозорої комунікації.",
		"Досяг(-ла) вимірюваних результатів і регулярно звітував(-ла) перед стейкхолдерами.",
	}
	return header + "\n• " + strings.Join(bullets, "\n• ")
}

func fallbackSummary(req *Request) string {
	name := req.Personal.FullName
	if name == "" {
		name = "Фахівець"
	}
	title := req.Personal.Title
	if title == "" {
		title = "Спеціаліст"
	}

	base := fmt.Sprintf("%s — %s у Швейцарії", name, title)
	if req.Personal.Location != "" {
		base += fmt.Sprintf(" (%s)", req.Personal.Location)
	}

	tail := ". Досвід адаптації до швейцарських стандартів, відповідальність, орієнтація на результат."
	if len(req.Skills) > 0 {
		skills := req.Skills
		if len(skills) > 6 {
			skills = skills[:6]
		}
		tail = fmt.Sprintf(". Ключові навички: %s.", strings.Join(skills, ", ")) + tail
	}
	return base + tail
}
