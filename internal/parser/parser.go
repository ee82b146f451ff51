// Package parser turns free-text model output into question records.
//
// The expected layout is a sequence of blocks:
//
//	QUESTION 1:
//	Prompt: What is 7 x 8?
//	A) 54
//	B) 56
//	C) 58
//	D) 64
//	CORRECT: B
//
// Blocks that do not yield a complete, valid record are skipped.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"smarttest-quiz-service/internal/domain"
)

var (
	markerTokens  = []string{"QUESTION", "QUESTAO", "QUESTÃO"}
	promptLabels  = []string{"Prompt:", "Pergunta:"}
	correctLabels = []string{"CORRECT:", "CORRETA:"}
)

const optionLetters = "ABCD"

// Parse extracts every well-formed block from raw, in block order.
func Parse(raw string) []domain.QuestionRecord {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var records []domain.QuestionRecord
	for _, segment := range splitBlocks(raw) {
		if record, ok := parseBlock(segment); ok {
			records = append(records, record)
		}
	}
	return records
}

type span struct {
	start, end int
}

// splitBlocks returns the text following each block marker. Anything before the first marker is dropped.
func splitBlocks(text string) []string {
	var markers []span
	for i := 0; i < len(text); i++ {
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			if unicode.IsLetter(prev) {
				continue
			}
		}
		if end, ok := matchMarker(text, i); ok {
			markers = append(markers, span{start: i, end: end})
			i = end - 1
		}
	}

	segments := make([]string, 0, len(markers))
	for k, m := range markers {
		next := len(text)
		if k+1 < len(markers) {
			next = markers[k+1].start
		}
		segments = append(segments, text[m.end:next])
	}
	return segments
}

// matchMarker matches `<token> <digits> :` at i and returns the offset just past the colon.
func matchMarker(text string, i int) (int, bool) {
	for _, token := range markerTokens {
		if len(text)-i < len(token) || !strings.EqualFold(text[i:i+len(token)], token) {
			continue
		}
		digitsStart := skipSpace(text, i+len(token))
		j := digitsStart
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j == digitsStart {
			continue
		}
		j = skipSpace(text, j)
		if j < len(text) && text[j] == ':' {
			return j + 1, true
		}
	}
	return 0, false
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

type scanState int

const (
	stateNone scanState = iota
	statePrompt
	stateOption
	stateDone
)

type option struct {
	letter byte
	lines  []string
}

func parseBlock(segment string) (domain.QuestionRecord, bool) {
	var (
		state       scanState
		hasPrompt   bool
		promptLines []string
		options     []option
		correct     byte
	)

	for _, line := range strings.Split(segment, "\n") {
		trimmed := strings.TrimSpace(line)

		if rest, ok := cutLabel(trimmed, promptLabels); ok && !hasPrompt {
			hasPrompt = true
			promptLines = []string{rest}
			state = statePrompt
			continue
		}
		if letter, rest, ok := cutOption(trimmed); ok {
			options = append(options, option{letter: letter, lines: []string{rest}})
			state = stateOption
			continue
		}
		if rest, ok := cutLabel(trimmed, correctLabels); ok {
			if correct == 0 {
				correct = correctLetter(rest)
			}
			state = stateDone
			continue
		}

		switch state {
		case statePrompt:
			promptLines = append(promptLines, trimmed)
		case stateOption:
			last := &options[len(options)-1]
			last.lines = append(last.lines, trimmed)
		}
	}

	prompt := strings.TrimSpace(strings.Join(promptLines, "\n"))
	if !hasPrompt || prompt == "" || correct == 0 || len(options) != domain.OptionCount {
		return domain.QuestionRecord{}, false
	}

	texts := make([]string, 0, len(options))
	for i, opt := range options {
		if opt.letter != optionLetters[i] {
			return domain.QuestionRecord{}, false
		}
		texts = append(texts, strings.TrimSpace(strings.Join(opt.lines, "\n")))
	}

	record := domain.QuestionRecord{
		Prompt:       prompt,
		Options:      texts,
		CorrectIndex: int(correct - 'A'),
		Difficulty:   domain.DifficultyMedium,
	}
	if err := record.Validate(); err != nil {
		return domain.QuestionRecord{}, false
	}
	return record, true
}

func cutLabel(line string, labels []string) (string, bool) {
	for _, label := range labels {
		if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
			return strings.TrimSpace(line[len(label):]), true
		}
	}
	return "", false
}

// cutOption recognises `A) text` through `D) text`.
func cutOption(line string) (byte, string, bool) {
	if len(line) < 2 || line[1] != ')' || strings.IndexByte(optionLetters, line[0]) < 0 {
		return 0, "", false
	}
	return line[0], strings.TrimSpace(line[2:]), true
}

func correctLetter(rest string) byte {
	if rest == "" {
		return 0
	}
	c := rest[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if strings.IndexByte(optionLetters, c) < 0 {
		return 0
	}
	return c
}
