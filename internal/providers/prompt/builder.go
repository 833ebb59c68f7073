package prompt

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/quality"
)

// rewriteFloor is the sub-score below which a rubric dimension earns an
// explicit corrective instruction in the next attempt's prompt.
const rewriteFloor = 7.0

// BuildSynthesis turns a creative strategy into the background synthesis
// prompt. The synthesized scene must leave the product region empty — the
// compositor fills it afterwards with the real product pixels.
func BuildSynthesis(strategy domain.CreativeStrategy) string {
	var b strings.Builder
	titler := cases.Title(languageFor(strategy.Locale))

	base := strings.TrimSpace(strategy.Prompt)
	if base == "" {
		base = "Premium advertisement background scene"
	}
	b.WriteString(base)

	if headline := strings.TrimSpace(strategy.Headline); headline != "" {
		fmt.Fprintf(&b, "\nHeadline text: %s", titler.String(headline))
	}
	if accent := strings.TrimSpace(strategy.AccentColor); accent != "" {
		fmt.Fprintf(&b, "\nAccent color: %s", accent)
	}
	if strategy.Integration == domain.IntegrationDeviceMockup {
		device := strategy.Device
		if device == "" {
			device = domain.DeviceIPhone
		}
		fmt.Fprintf(&b, "\nInclude an illustrated %s device frame with a blank dark screen.", device)
	}
	b.WriteString("\nKeep the product area empty: no objects or text inside the central placement region, it will be composited separately.")
	if locale := strings.TrimSpace(strategy.Locale); locale != "" {
		fmt.Fprintf(&b, "\nTarget locale: %s", locale)
	}
	return b.String()
}

// Rewrite derives the next attempt's prompt from the previous verdict.
// The lowest-scoring rubric dimensions get explicit corrective
// instructions appended in a stable order.
func Rewrite(base string, breakdown quality.Breakdown) string {
	fixes := correctiveInstructions(breakdown)
	if len(fixes) == 0 {
		return base + "\nImprove overall composition quality and polish."
	}
	var b strings.Builder
	b.WriteString(base)
	for _, fix := range fixes {
		b.WriteString("\n")
		b.WriteString(fix)
	}
	return b.String()
}

var dimensionFixes = map[string]string{
	quality.DimHeadlineReadability: "Make the headline larger and increase its contrast against the background.",
	quality.DimProductProminence:   "Give the product more space: enlarge the empty placement region and reduce competing detail around it.",
	quality.DimVisualHierarchy:     "Strengthen the visual hierarchy: one dominant focal point, supporting elements clearly secondary.",
	quality.DimColorHarmony:        "Tighten the palette around the accent color; remove clashing hues.",
	quality.DimPolish:              "Increase overall polish: cleaner lighting, fewer artifacts, smoother gradients.",
}

// correctiveInstructions picks up to two dimensions scoring below the
// rewrite floor, worst first, ties broken by name for determinism.
func correctiveInstructions(breakdown quality.Breakdown) []string {
	type dim struct {
		name  string
		score float64
	}
	var low []dim
	for name, score := range breakdown {
		if score < rewriteFloor {
			if _, known := dimensionFixes[name]; known {
				low = append(low, dim{name: name, score: score})
			}
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].score != low[j].score {
			return low[i].score < low[j].score
		}
		return low[i].name < low[j].name
	})
	if len(low) > 2 {
		low = low[:2]
	}
	out := make([]string, 0, len(low))
	for _, d := range low {
		out = append(out, dimensionFixes[d.name])
	}
	return out
}

func languageFor(locale string) language.Tag {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "de":
		return language.German
	case "en":
		return language.English
	case "":
		return language.Und
	default:
		tag, err := language.Parse(locale)
		if err != nil {
			return language.Und
		}
		return tag
	}
}
