package skills

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Heuristics holds the phrase sets and thresholds behind the advisory
// checks. Phrases are matched case-insensitively as substrings.
type Heuristics struct {
	ActivationPhrases  []string `mapstructure:"activation_phrases" json:"activation_phrases" yaml:"activation_phrases"`
	ExamplePhrases     []string `mapstructure:"example_phrases" json:"example_phrases" yaml:"example_phrases"`
	FormatPhrases      []string `mapstructure:"format_phrases" json:"format_phrases" yaml:"format_phrases"`
	WhenToUsePhrases   []string `mapstructure:"when_to_use_phrases" json:"when_to_use_phrases" yaml:"when_to_use_phrases"`
	PlaceholderMarkers []string `mapstructure:"placeholder_markers" json:"placeholder_markers" yaml:"placeholder_markers"`
	PlaceholderNames   []string `mapstructure:"placeholder_names" json:"placeholder_names" yaml:"placeholder_names"`
	CriticalMarker     string   `mapstructure:"critical_marker" json:"critical_marker" yaml:"critical_marker"`

	MaxDescriptorLines     int   `mapstructure:"max_descriptor_lines" json:"max_descriptor_lines" yaml:"max_descriptor_lines"`
	MaxDescriptorWords     int   `mapstructure:"max_descriptor_words" json:"max_descriptor_words" yaml:"max_descriptor_words"`
	MaxReferencesBytes     int64 `mapstructure:"max_references_bytes" json:"max_references_bytes" yaml:"max_references_bytes"`
	MinDescriptionChars    int   `mapstructure:"min_description_chars" json:"min_description_chars" yaml:"min_description_chars"`
	MinSections            int   `mapstructure:"min_sections" json:"min_sections" yaml:"min_sections"`
	MaxSections            int   `mapstructure:"max_sections" json:"max_sections" yaml:"max_sections"`
	TableSectionThreshold  int   `mapstructure:"table_section_threshold" json:"table_section_threshold" yaml:"table_section_threshold"`
	MaxUntaggedCodeBlocks  int   `mapstructure:"max_untagged_code_blocks" json:"max_untagged_code_blocks" yaml:"max_untagged_code_blocks"`
	CriticalCodeLines      int   `mapstructure:"critical_code_lines" json:"critical_code_lines" yaml:"critical_code_lines"`
	FingerprintWords       int   `mapstructure:"fingerprint_words" json:"fingerprint_words" yaml:"fingerprint_words"`
	MaxDuplicateHits       int   `mapstructure:"max_duplicate_hits" json:"max_duplicate_hits" yaml:"max_duplicate_hits"`
	MaxDescriptionChars    int   `mapstructure:"max_description_chars" json:"max_description_chars" yaml:"max_description_chars"`
	ShortDescriptionChars  int   `mapstructure:"short_description_chars" json:"short_description_chars" yaml:"short_description_chars"`
	MaxBodyLines           int   `mapstructure:"max_body_lines" json:"max_body_lines" yaml:"max_body_lines"`
	DocstringWindowBytes   int   `mapstructure:"docstring_window_bytes" json:"docstring_window_bytes" yaml:"docstring_window_bytes"`
	MaxListedAssets        int   `mapstructure:"max_listed_assets" json:"max_listed_assets" yaml:"max_listed_assets"`
	MaxListedSectionTitles int   `mapstructure:"max_listed_section_titles" json:"max_listed_section_titles" yaml:"max_listed_section_titles"`
}

// DefaultHeuristics returns the built-in English and Portuguese phrase sets
// and thresholds
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ActivationPhrases:  []string{"use when", "usar quando", "when", "para:", "for:", "scenario", "cenário"},
		ExamplePhrases:     []string{"example", "exemplo", "(1)", "(2)", "include", "inclui"},
		FormatPhrases:      []string{".docx", ".pdf", ".xlsx", ".pptx", ".md", ".html", ".json"},
		WhenToUsePhrases:   []string{"when to use", "quando usar"},
		PlaceholderMarkers: []string{"placeholder"},
		PlaceholderNames:   []string{"placeholder", "exemplo", "example"},
		CriticalMarker:     "**CRITICAL",

		MaxDescriptorLines:     400,
		MaxDescriptorWords:     3000,
		MaxReferencesBytes:     100 * 1024,
		MinDescriptionChars:    100,
		MinSections:            2,
		MaxSections:            15,
		TableSectionThreshold:  5,
		MaxUntaggedCodeBlocks:  2,
		CriticalCodeLines:      50,
		FingerprintWords:       10,
		MaxDuplicateHits:       3,
		MaxDescriptionChars:    1024,
		ShortDescriptionChars:  50,
		MaxBodyLines:           500,
		DocstringWindowBytes:   500,
		MaxListedAssets:        20,
		MaxListedSectionTitles: 10,
	}
}

// LoadHeuristics reads heuristics from viper on top of the defaults. Keys
// under "heuristics" override the defaults; when "heuristics_profile" names
// an entry of "heuristics_profiles" it is applied last.
func LoadHeuristics() (Heuristics, error) {
	h := DefaultHeuristics()

	if raw := viper.Get("heuristics"); raw != nil {
		if err := applyHeuristics(&h, raw); err != nil {
			return h, errors.Wrap(err, "failed to apply heuristics configuration")
		}
	}

	profile := viper.GetString("heuristics_profile")
	if profile == "" || profile == "default" {
		return h, nil
	}

	raw := viper.Get("heuristics_profiles." + profile)
	if raw == nil {
		return h, errors.Errorf("heuristics profile '%s' not found", profile)
	}
	if err := applyHeuristics(&h, raw); err != nil {
		return h, errors.Wrapf(err, "failed to apply heuristics profile '%s'", profile)
	}

	return h, nil
}

func applyHeuristics(h *Heuristics, raw any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           h,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create heuristics decoder")
	}
	return decoder.Decode(raw)
}

// ContainsAny reports whether text contains any phrase, ignoring case
func ContainsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// IsPlaceholder reports whether a file looks like scaffold filler, judged by
// its name or its content
func (h Heuristics) IsPlaceholder(name, content string) bool {
	return ContainsAny(name, h.PlaceholderNames) || ContainsAny(content, h.PlaceholderMarkers)
}
