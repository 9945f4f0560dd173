package ai

// Tier selects a model class. Each provider maps tiers to concrete model names.
type Tier string

const (
	// TierFast is the default low-latency model.
	TierFast Tier = "fast"
	// TierPro is the high-capability model.
	TierPro Tier = "pro"
)

// Models maps tiers to provider model names.
type Models struct {
	Fast string
	Pro  string
}

func (m Models) For(t Tier) string {
	if t == TierPro && m.Pro != "" {
		return m.Pro
	}
	return m.Fast
}

// Request is a single model invocation.
type Request struct {
	Tier              Tier
	SystemInstruction string
	UserContent       string
	// Schema, when non-nil, asks the provider for structured JSON output.
	Schema *Schema
	// Grounding lets the model consult live search results.
	Grounding bool
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral subset of JSON Schema used for structured output.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}
