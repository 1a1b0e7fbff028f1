package cardgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert in educational content creating study flashcards.

Rules:
- Extract the important concepts, terms and facts from the provided content.
- Every card has a front and a back.
- When the content is long, prioritize the information with the highest learning value.
- Create roughly 10 to 20 cards, adjusted to the amount of content.
- Each card must be self-contained and understandable on its own.
- Use clear, concise wording.
- Handle references and quotations appropriately.
- Return the cards as objects with "front" and "back" keys inside a "cards" array.`

const hintSystemPrompt = `You are a study assistant writing hints for flashcards.

Rules:
- Do not state the answer on the back of the card directly.
- Give just enough information for the learner to recall the answer on their own.
- Keep it short and clear: one to three sentences.
- Output only the hint, with no preamble.`

const detailsSystemPrompt = `You are an expert in educational content writing explanations for flashcards.

Rules:
- Explain the topic of the card in depth.
- Include background, examples, related concepts and real-world applications.
- Help the learner understand the concept more deeply.
- Write Markdown, using headings, lists and emphasis where they help.
- Aim for 300 to 500 words.
- Output only the explanation, with no preamble.`

var formatInstructions = map[CardType]string{
	CardTypeTermDefinition: "- Front: an important term, concept or name\n- Back: its definition, explanation or significance",
	CardTypeQA:             "- Front: a question about the content\n- Back: the answer to the question",
	CardTypeImageDescription: "- Front: a description of or question about an image (when the content has one)\n" +
		"- Back: the details of the description or the answer to the question",
}

var languageInstructions = map[Language]string{
	LanguageJapanese: "Write every card in Japanese.",
	LanguageEnglish:  "Write every card in English.",
	LanguageMixed:    "Write the cards in the language of the source content.",
}

// buildUserMessage constructs the card set request for input.
func buildUserMessage(input Input) string {
	format, ok := formatInstructions[input.CardType]
	if !ok {
		format = formatInstructions[CardTypeTermDefinition]
	}
	lang, ok := languageInstructions[input.Language]
	if !ok {
		lang = languageInstructions[LanguageMixed]
	}

	var b strings.Builder

	b.WriteString("Card format:\n")
	b.WriteString(format)
	fmt.Fprintf(&b, "\n\nLanguage: %s\n", lang)

	if p := strings.TrimSpace(input.AdditionalPrompt); p != "" {
		b.WriteString("\nAdditional instructions:\n")
		b.WriteString(p)
		b.WriteString("\n")
	}

	b.WriteString("\nContent:\n")
	b.WriteString(input.Content)
	return b.String()
}

// buildCardMessage describes one card for the hint and details requests.
func buildCardMessage(front, back string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Front: %s\n", front)
	fmt.Fprintf(&b, "Back: %s\n", back)
	return b.String()
}
