package library

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/abhisek/flashdeck/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	hintPrefix     = "H:"
)

type parseState int

const (
	seeking parseState = iota
	readingQuestion
	readingAnswer
	readingHint
)

// ParseMarkdownFile reads Q/A cards from a markdown file.
func ParseMarkdownFile(path string) ([]domain.CardDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseMarkdown(f)
}

// ParseMarkdown extracts cards written as
//
//	Q: question
//	A: answer
//	H: optional hint
//
// Each block may span several lines. A new Q: line or a "---" separator
// ends the current card. Cards missing a question or an answer are dropped.
func ParseMarkdown(r io.Reader) ([]domain.CardDraft, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cards []domain.CardDraft
		card  domain.CardDraft
		block []string
		state = seeking
	)

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch state {
		case readingQuestion:
			card.Front = content
		case readingAnswer:
			card.Back = content
		case readingHint:
			card.Hint = content
		}
		block = nil
	}
	finishCard := func() {
		flushBlock()
		if card.Front != "" && card.Back != "" {
			cards = append(cards, card)
		}
		card = domain.CardDraft{}
		state = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "---" {
			finishCard()
			continue
		}

		prefix, next := "", state
		switch {
		case strings.HasPrefix(line, questionPrefix):
			prefix, next = questionPrefix, readingQuestion
		case strings.HasPrefix(line, answerPrefix):
			prefix, next = answerPrefix, readingAnswer
		case strings.HasPrefix(line, hintPrefix):
			prefix, next = hintPrefix, readingHint
		}

		if prefix == "" {
			if state != seeking {
				block = append(block, line)
			}
			continue
		}

		if next == readingQuestion && state != seeking {
			finishCard()
		} else {
			flushBlock()
		}
		state = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}
	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
