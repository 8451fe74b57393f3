//go:build staging

package staging

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSynthesisRecipes(t *testing.T) {
	resp, _ := makeRequest(t, "POST", "/api/v1/game/new", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	resp, body := makeRequest(t, "GET", "/api/v1/synthesis/recipes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var recipes struct {
		Data []struct {
			Recipe struct {
				RecipeID int `json:"recipe_id"`
			} `json:"recipe"`
			Unlocked bool `json:"unlocked"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &recipes); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(recipes.Data) == 0 {
		t.Fatal("Expected at least one recipe")
	}

	// The basic recipe has no unlock requirement.
	foundUnlocked := false
	for _, r := range recipes.Data {
		if r.Unlocked {
			foundUnlocked = true
			break
		}
	}
	if !foundUnlocked {
		t.Error("Expected at least one unlocked recipe on a fresh game")
	}
}

func TestSynthesisStatusIdle(t *testing.T) {
	resp, _ := makeRequest(t, "POST", "/api/v1/game/new", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	resp, body := makeRequest(t, "GET", "/api/v1/synthesis/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var status struct {
		Phase string `json:"phase"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if status.Phase != "idle" {
		t.Errorf("Expected phase 'idle' on a fresh game, got %q", status.Phase)
	}
}
