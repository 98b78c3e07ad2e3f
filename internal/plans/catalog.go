package plans

import "strings"

type PlanID string

const (
	PlanFree  PlanID = "free"
	PlanPro   PlanID = "pro"
	PlanMax   PlanID = "max"
	PlanOwner PlanID = "owner"
)

// Model identifiers routed to the inference relay.
const (
	ModelDeepSeek7B = "deepseek-ai/DeepSeek-R1-Distill-Qwen-7B:featherless-ai"
	ModelGPTOSS20B  = "openai/gpt-oss-20b:novita"
	ModelGPTOSS120B = "openai/gpt-oss-120b:novita"
)

type Plan struct {
	ID          PlanID
	Name        string
	DisplayName string
	Icon        string
	Color       string
	ModelID     string

	ResponsesPerChat int
	ChatsPerDay      int
	// AdvancedModelUsesPerChat > 0 means the plan routes to ModelID until the
	// per-chat advanced budget is spent, then silently falls back to
	// ModelGPTOSS20B.
	AdvancedModelUsesPerChat int

	RequiresApproval bool
	// Unlimited plans bypass every quota check.
	Unlimited bool
}

// CustomLimits are admin-granted overrides stored alongside a plan
// assignment. Nil fields keep the plan default.
type CustomLimits struct {
	ResponsesPerChat *int `json:"responses_per_chat,omitempty"`
	ChatsPerDay      *int `json:"chats_per_day,omitempty"`
}

// ApplyOverrides returns a copy of p with any non-nil custom limits applied.
func ApplyOverrides(p Plan, limits *CustomLimits) Plan {
	if limits == nil {
		return p
	}
	if limits.ResponsesPerChat != nil {
		p.ResponsesPerChat = *limits.ResponsesPerChat
	}
	if limits.ChatsPerDay != nil {
		p.ChatsPerDay = *limits.ChatsPerDay
	}
	return p
}

var planTable = map[PlanID]Plan{
	PlanFree: {
		ID:               PlanFree,
		Name:             "Free Plan",
		DisplayName:      "ModelFlow Free",
		Icon:             "🆓",
		Color:            "#71717a",
		ModelID:          ModelDeepSeek7B,
		ResponsesPerChat: 5,
		ChatsPerDay:      2,
	},
	PlanPro: {
		ID:               PlanPro,
		Name:             "ModelFlow Pro",
		DisplayName:      "ModelFlow Pro",
		Icon:             "⚡",
		Color:            "#58a6ff",
		ModelID:          ModelGPTOSS20B,
		ResponsesPerChat: 8,
		ChatsPerDay:      3,
		RequiresApproval: true,
	},
	PlanMax: {
		ID:                       PlanMax,
		Name:                     "ModelFlow Max",
		DisplayName:              "ModelFlow Max",
		Icon:                     "🚀",
		Color:                    "#f59e0b",
		ModelID:                  ModelGPTOSS120B,
		ResponsesPerChat:         10,
		ChatsPerDay:              4,
		AdvancedModelUsesPerChat: 2,
		RequiresApproval:         true,
	},
	PlanOwner: {
		ID:          PlanOwner,
		Name:        "Owner",
		DisplayName: "Owner (Unlimited)",
		Icon:        "👑",
		Color:       "#10b981",
		ModelID:     ModelGPTOSS120B,
		Unlimited:   true,
	},
}

// Catalog is the single source of truth for plan definitions and the
// administrator identity allowlist.
type Catalog struct {
	ownerEmails map[string]struct{}
}

func NewCatalog(adminEmails []string) *Catalog {
	owners := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			owners[email] = struct{}{}
		}
	}
	return &Catalog{ownerEmails: owners}
}

// GetPlan never errors: an unknown or corrupted plan id resolves to the free
// plan so a user with bad stored state is never locked out.
func (c *Catalog) GetPlan(planID string) Plan {
	if plan, ok := planTable[PlanID(strings.ToLower(strings.TrimSpace(planID)))]; ok {
		return plan
	}
	return planTable[PlanFree]
}

// IsOwnerIdentity reports whether email is on the injected admin allowlist.
// Owners bypass all quota checks everywhere.
func (c *Catalog) IsOwnerIdentity(email string) bool {
	_, ok := c.ownerEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// AllPlans lists the user-selectable tiers (owner is not self-selectable).
func (c *Catalog) AllPlans() []Plan {
	return []Plan{planTable[PlanFree], planTable[PlanPro], planTable[PlanMax]}
}
