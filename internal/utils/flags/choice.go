package flags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix       = "<"
	choicePlaceholderSuffix       = ">"
	choiceSeparatorLiteral        = "|"
	choiceUsageEmptyTemplate      = "`%s`"
	choiceUsageFullTemplate       = "`%s` %s"
	choiceValueTypeConstant       = "string"
	unsupportedChoiceTemplate     = "unsupported value %q, expected one of %s"
	choiceListSeparatorForMessage = ", "
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	for _, choice := range uniqueChoices(choices) {
		displayValue := choice
		if strings.ToLower(choice) == normalizedDefault {
			displayValue = strings.ToUpper(choice)
		}
		highlighted = append(highlighted, displayValue)
	}
	return highlighted
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}

// ChoiceValue is a pflag.Value restricted to a fixed set of choices.
// Values are stored exactly as provided; matching is exact.
type ChoiceValue struct {
	current string
	choices []string
}

// NewChoiceValue constructs a ChoiceValue holding defaultChoice.
func NewChoiceValue(defaultChoice string, choices []string) *ChoiceValue {
	return &ChoiceValue{current: defaultChoice, choices: uniqueChoices(choices)}
}

// Set validates and stores the provided value.
func (value *ChoiceValue) Set(rawValue string) error {
	if !slices.Contains(value.choices, rawValue) {
		return fmt.Errorf(unsupportedChoiceTemplate, rawValue, strings.Join(value.choices, choiceListSeparatorForMessage))
	}
	value.current = rawValue
	return nil
}

func (value *ChoiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.current
}

func (value *ChoiceValue) Type() string {
	return choiceValueTypeConstant
}

// AddChoiceFlag registers a choice-restricted flag on flagSet with a highlighted usage string.
func AddChoiceFlag(flagSet *pflag.FlagSet, name string, defaultChoice string, choices []string, description string) *ChoiceValue {
	choiceValue := NewChoiceValue(defaultChoice, choices)
	if flagSet == nil || len(name) == 0 {
		return choiceValue
	}
	flagSet.Var(choiceValue, name, FormatChoiceUsage(defaultChoice, choices, description))
	return choiceValue
}
