package plans

import "testing"

func TestEvaluateAllowsWithinLimits(t *testing.T) {
	catalog := NewCatalog(nil)

	for _, planID := range []string{"free", "pro", "max"} {
		plan := catalog.GetPlan(planID)
		usage := Usage{
			ChatsStartedToday:      plan.ChatsPerDay - 1,
			ResponsesInCurrentChat: plan.ResponsesPerChat - 1,
		}

		dec := Evaluate(plan, usage, false)
		if !dec.Allowed {
			t.Errorf("plan %s: expected Allowed, got denial %s", planID, dec.Denial)
		}
		if dec.ModelID == "" {
			t.Errorf("plan %s: allowed decision has no model", planID)
		}
	}
}

func TestEvaluateDeniesResponseLimit(t *testing.T) {
	catalog := NewCatalog(nil)
	plan := catalog.GetPlan("free")

	// The response-limit check fires regardless of the daily chat counter.
	for _, chatsToday := range []int{0, 1, 99} {
		usage := Usage{
			ChatsStartedToday:      chatsToday,
			ResponsesInCurrentChat: plan.ResponsesPerChat,
		}

		dec := Evaluate(plan, usage, false)
		if dec.Allowed {
			t.Fatalf("chatsToday=%d: expected denial, got Allowed", chatsToday)
		}
		if dec.Denial != DenyChatResponseLimit {
			t.Errorf("chatsToday=%d: denial = %s, want %s", chatsToday, dec.Denial, DenyChatResponseLimit)
		}
		if dec.LimitValue != plan.ResponsesPerChat {
			t.Errorf("chatsToday=%d: limit = %d, want %d", chatsToday, dec.LimitValue, plan.ResponsesPerChat)
		}
	}
}

func TestEvaluateDeniesDailyChatLimit(t *testing.T) {
	catalog := NewCatalog(nil)
	plan := catalog.GetPlan("free")

	usage := Usage{ChatsStartedToday: plan.ChatsPerDay}
	dec := Evaluate(plan, usage, true)
	if dec.Allowed {
		t.Fatal("expected daily chat denial, got Allowed")
	}
	if dec.Denial != DenyDailyChatLimit || dec.LimitValue != plan.ChatsPerDay {
		t.Errorf("got (%s, %d), want (%s, %d)", dec.Denial, dec.LimitValue, DenyDailyChatLimit, plan.ChatsPerDay)
	}
}

func TestEvaluateMaxPlanAdvancedFallback(t *testing.T) {
	catalog := NewCatalog(nil)
	plan := catalog.GetPlan("max")
	if plan.AdvancedModelUsesPerChat != 2 {
		t.Fatalf("max plan advanced budget = %d, want 2", plan.AdvancedModelUsesPerChat)
	}

	tests := []struct {
		name         string
		advancedUsed int
		wantModel    string
		wantAdvanced bool
	}{
		{"first response uses premium", 0, ModelGPTOSS120B, true},
		{"second response uses premium", 1, ModelGPTOSS120B, true},
		{"third response falls back", 2, ModelGPTOSS20B, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := Usage{
				ResponsesInCurrentChat:         tt.advancedUsed,
				AdvancedModelUsesInCurrentChat: tt.advancedUsed,
			}

			dec := Evaluate(plan, usage, false)
			if !dec.Allowed {
				t.Fatalf("expected Allowed, got denial %s", dec.Denial)
			}
			if dec.ModelID != tt.wantModel {
				t.Errorf("model = %s, want %s", dec.ModelID, tt.wantModel)
			}
			if dec.IsAdvancedModel != tt.wantAdvanced {
				t.Errorf("advanced = %v, want %v", dec.IsAdvancedModel, tt.wantAdvanced)
			}
		})
	}
}

func TestEvaluateMaxPlanFallbackIsSilent(t *testing.T) {
	catalog := NewCatalog(nil)
	plan := catalog.GetPlan("max")

	// Spending the advanced budget must not deny the request while the
	// overall response budget remains.
	usage := Usage{
		ResponsesInCurrentChat:         5,
		AdvancedModelUsesInCurrentChat: plan.AdvancedModelUsesPerChat,
	}
	dec := Evaluate(plan, usage, false)
	if !dec.Allowed {
		t.Fatalf("fallback must not deny; got %s", dec.Denial)
	}
	if dec.ModelID != ModelGPTOSS20B {
		t.Errorf("fallback model = %s, want %s", dec.ModelID, ModelGPTOSS20B)
	}
}

func TestEvaluateOwnerBypassesEverything(t *testing.T) {
	catalog := NewCatalog([]string{"admin@modelflow.app"})
	plan := catalog.GetPlan("owner")

	usage := Usage{
		ChatsStartedToday:              1000,
		ResponsesInCurrentChat:         1000,
		AdvancedModelUsesInCurrentChat: 1000,
	}

	for _, isNewChat := range []bool{false, true} {
		dec := Evaluate(plan, usage, isNewChat)
		if !dec.Allowed {
			t.Fatalf("isNewChat=%v: owner denied with %s", isNewChat, dec.Denial)
		}
		if dec.ModelID != ModelGPTOSS120B {
			t.Errorf("isNewChat=%v: owner routed to %s, want %s", isNewChat, dec.ModelID, ModelGPTOSS120B)
		}
	}
}

func TestEvaluateRespectsCustomLimits(t *testing.T) {
	catalog := NewCatalog(nil)
	responses := 20
	plan := ApplyOverrides(catalog.GetPlan("pro"), &CustomLimits{ResponsesPerChat: &responses})

	dec := Evaluate(plan, Usage{ResponsesInCurrentChat: 10}, false)
	if !dec.Allowed {
		t.Fatalf("override should lift the default limit, got %s", dec.Denial)
	}

	dec = Evaluate(plan, Usage{ResponsesInCurrentChat: 20}, false)
	if dec.Allowed || dec.LimitValue != 20 {
		t.Errorf("expected denial at overridden limit 20, got %+v", dec)
	}
}
