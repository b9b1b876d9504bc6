package textutil

import (
	"reflect"
	"testing"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"camel case", "AnatomicalBody", []string{"Anatomical", "Body"}},
		{"snake case", "anatomical_body", []string{"anatomical", "body"}},
		{"kebab case", "vintage-rocket", []string{"vintage", "rocket"}},
		{"acronym prefix", "NASAPoster2024", []string{"NASA", "Poster", "2024"}},
		{"glued digits", "Dust2Map", []string{"Dust", "2", "Map"}},
		{"trailing acronym dropped", "ApolloNASA", []string{"Apollo"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWords(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitWords(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePosterName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantLabel string
	}{
		{"camel case", "AnatomicalBody", "anatomical_body", "Anatomical Body"},
		{"acronym", "NASALaunchTower", "nasa_launch_tower", "NASA Launch Tower"},
		{"snake with acronym", "cs_go_dust", "cs_go_dust", "CS Go Dust"},
		{"kebab with acronym", "fps-classic", "fps_classic", "FPS Classic"},
		{"digits", "Apollo11", "apollo_11", "Apollo 11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePosterName(tt.input)
			if got.Key != tt.wantKey || got.Label != tt.wantLabel {
				t.Errorf("NormalizePosterName(%q) = (%q, %q), want (%q, %q)",
					tt.input, got.Key, got.Label, tt.wantKey, tt.wantLabel)
			}
		})
	}
}

func TestNormalizeBackgroundName(t *testing.T) {
	got := NormalizeBackgroundName("AntiqueParchment")
	if got.Key != "antique_parchment" || got.Label != "Antique Parchment" {
		t.Errorf("NormalizeBackgroundName = %+v", got)
	}
}

func TestNormalizeStudioNameFranchise(t *testing.T) {
	got := NormalizeStudioName("RAM_GetYourShit")
	want := StudioName{
		FranchiseKey:   "rick_and_morty",
		FranchiseLabel: "Rick and Morty",
		TitleKey:       "get_your_shit",
		TitleLabel:     "Get Your Shit",
		DisplayName:    "Rick and Morty - Get Your Shit",
	}
	if got != want {
		t.Errorf("NormalizeStudioName = %+v, want %+v", got, want)
	}
}

func TestNormalizeStudioNameSeparatedAlias(t *testing.T) {
	got := NormalizeStudioName("Rick_And_Morty_PortalChase")
	want := StudioName{
		FranchiseKey:   "rick_and_morty",
		FranchiseLabel: "Rick and Morty",
		TitleKey:       "portal_chase",
		TitleLabel:     "Portal Chase",
		DisplayName:    "Rick and Morty - Portal Chase",
	}
	if got != want {
		t.Errorf("NormalizeStudioName = %+v, want %+v", got, want)
	}
}

func TestNormalizeStudioNameFranchiseOnly(t *testing.T) {
	got := NormalizeStudioName("RAM")
	if got.DisplayName != "Rick and Morty" {
		t.Errorf("display name = %q, want bare franchise label", got.DisplayName)
	}
	if got.TitleKey != "" || got.TitleLabel != "" {
		t.Errorf("expected empty title, got %+v", got)
	}
}

func TestNormalizeStudioNameCounterStrike(t *testing.T) {
	got := NormalizeStudioName("CounterStrike_Dust2")
	if got.FranchiseLabel != "Counter-Strike" {
		t.Fatalf("franchise = %q, want Counter-Strike", got.FranchiseLabel)
	}
	if got.FranchiseKey != "counter_strike" {
		t.Errorf("franchise key = %q, want counter_strike", got.FranchiseKey)
	}
	if got.DisplayName != "Counter-Strike - Dust 2" {
		t.Errorf("display name = %q", got.DisplayName)
	}
}

func TestNormalizeStudioNameFallback(t *testing.T) {
	got := NormalizeStudioName("SoloExhibit")
	if got.FranchiseKey != "" || got.FranchiseLabel != "" {
		t.Errorf("expected no franchise, got %+v", got)
	}
	if got.DisplayName != "Solo Exhibit" {
		t.Errorf("display name = %q, want Solo Exhibit", got.DisplayName)
	}
}

func TestNormalizeStudioNameEmpty(t *testing.T) {
	if got := NormalizeStudioName("  "); got != (StudioName{}) {
		t.Errorf("expected zero value, got %+v", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short unchanged", "replace roll", 48, "replace roll"},
		{"exact unchanged", "abcd", 4, "abcd"},
		{"cut with ellipsis", "scan failed: permission denied reading folder", 20, "scan failed: perm..."},
		{"tiny max", "abcdef", 2, "ab"},
		{"zero max", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
