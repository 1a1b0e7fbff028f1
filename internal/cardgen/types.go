package cardgen

import "fmt"

// CardType selects the shape of generated cards.
type CardType string

const (
	CardTypeTermDefinition   CardType = "term-definition"
	CardTypeQA               CardType = "qa"
	CardTypeImageDescription CardType = "image-description"
)

// Language selects the language cards are written in.
type Language string

const (
	LanguageJapanese Language = "japanese"
	LanguageEnglish  Language = "english"
	LanguageMixed    Language = "mixed" // follow the source content
)

// ParseCardType validates a card type name. Empty means term-definition.
func ParseCardType(s string) (CardType, error) {
	switch CardType(s) {
	case "":
		return CardTypeTermDefinition, nil
	case CardTypeTermDefinition, CardTypeQA, CardTypeImageDescription:
		return CardType(s), nil
	}
	return "", fmt.Errorf("unknown card type %q (want term-definition, qa or image-description)", s)
}

// ParseLanguage validates a language name. Empty means mixed.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case "":
		return LanguageMixed, nil
	case LanguageJapanese, LanguageEnglish, LanguageMixed:
		return Language(s), nil
	}
	return "", fmt.Errorf("unknown language %q (want japanese, english or mixed)", s)
}

// Input is the material and options for one generation request.
type Input struct {
	Content          string
	CardType         CardType
	Language         Language
	AdditionalPrompt string
}
