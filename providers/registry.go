package providers

import "strings"

// The ID's of each provider
const (
	OpenaiID     = "openai"
	OpenrouterID = "openrouter"
)

// Display names for providers
const (
	OpenaiDisplayName     = "Openai"
	OpenrouterDisplayName = "OpenRouter"
)

// The default base URLs of each provider
const (
	OpenaiDefaultBaseURL     = "https://api.openai.com/v1"
	OpenrouterDefaultBaseURL = "https://openrouter.ai/api/v1"
)

// ChatCompletionsEndpoint is appended to the provider base URL
const ChatCompletionsEndpoint = "/chat/completions"

// Config describes an OpenAI compatible provider
type Config struct {
	ID           string
	Name         string
	URL          string
	ExtraHeaders map[string][]string
}

// The registry of all providers
var Registry = map[string]Config{
	OpenaiID: {
		ID:   OpenaiID,
		Name: OpenaiDisplayName,
		URL:  OpenaiDefaultBaseURL,
	},
	OpenrouterID: {
		ID:   OpenrouterID,
		Name: OpenrouterDisplayName,
		URL:  OpenrouterDefaultBaseURL,
		ExtraHeaders: map[string][]string{
			"X-Title": {"TechStore Support"},
		},
	},
}

// Resolve picks the provider and the effective model name. OpenRouter
// addresses models as "vendor/model", so bare names get the openai/ prefix.
func Resolve(useOpenRouter bool, urlOverride string, model string) (Config, string) {
	id := OpenaiID
	if useOpenRouter {
		id = OpenrouterID
	}

	cfg := Registry[id]
	if urlOverride != "" {
		cfg.URL = strings.TrimRight(urlOverride, "/")
	}

	if useOpenRouter && !strings.Contains(model, "/") {
		model = "openai/" + model
	}

	return cfg, model
}
