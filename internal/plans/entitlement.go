package plans

// Usage is the counter snapshot the engine decides against. The per-chat
// counters are scoped to the currently active chat; ChatsStartedToday is
// cumulative within the calendar day.
type Usage struct {
	ChatsStartedToday              int
	ResponsesInCurrentChat         int
	AdvancedModelUsesInCurrentChat int
}

type DenialKind string

const (
	DenyDailyChatLimit    DenialKind = "DAILY_CHAT_LIMIT"
	DenyChatResponseLimit DenialKind = "CHAT_RESPONSE_LIMIT"
)

// Decision is the outcome of an entitlement check. A denial is a normal
// return value, not an error; callers branch on Allowed.
type Decision struct {
	Allowed         bool
	ModelID         string
	IsAdvancedModel bool

	Denial     DenialKind
	LimitValue int
}

func allowed(modelID string, advanced bool) Decision {
	return Decision{Allowed: true, ModelID: modelID, IsAdvancedModel: advanced}
}

func denied(kind DenialKind, limit int) Decision {
	return Decision{Denial: kind, LimitValue: limit}
}

// Evaluate decides whether a send may proceed and which model it is routed
// to. It is a pure function of (plan, usage, isNewChat): all checks happen
// before any side effect, and the engine itself mutates nothing. The caller
// sequence is evaluate → IncrementChatStart (new chat only) → relay call →
// IncrementResponse on success.
func Evaluate(plan Plan, usage Usage, isNewChat bool) Decision {
	if plan.Unlimited {
		return allowed(plan.ModelID, false)
	}

	if isNewChat {
		if usage.ChatsStartedToday >= plan.ChatsPerDay {
			return denied(DenyDailyChatLimit, plan.ChatsPerDay)
		}
		// A fresh chat starts with zero per-chat counters; the stale
		// counters in usage belong to the previous chat and are zeroed by
		// IncrementChatStart before the first response.
	} else if usage.ResponsesInCurrentChat >= plan.ResponsesPerChat {
		return denied(DenyChatResponseLimit, plan.ResponsesPerChat)
	}

	if plan.AdvancedModelUsesPerChat > 0 {
		if isNewChat || usage.AdvancedModelUsesInCurrentChat < plan.AdvancedModelUsesPerChat {
			return allowed(plan.ModelID, true)
		}
		// Advanced budget spent: downgrade the model transparently instead
		// of denying. The caller surfaces the fallback to the user.
		return allowed(ModelGPTOSS20B, false)
	}

	return allowed(plan.ModelID, false)
}
