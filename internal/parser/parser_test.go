package parser

import (
	"strings"
	"testing"

	"smarttest-quiz-service/internal/domain"
)

const twoBlocks = `Here are your questions.

QUESTION 1:
Prompt: What is 7 x 8?
A) 54
B) 56
C) 58
D) 64
CORRECT: B

QUESTION 2:
Prompt: Which planet is closest to the Sun?
A) Venus
B) Earth
C) Mercury
D) Mars
CORRECT: C
`

func TestParseWellFormedBlocks(t *testing.T) {
	records := Parse(twoBlocks)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	first := records[0]
	if first.Prompt != "What is 7 x 8?" {
		t.Fatalf("unexpected prompt %q", first.Prompt)
	}
	if first.CorrectIndex != 1 || first.Options[1] != "56" {
		t.Fatalf("unexpected answer mapping: %+v", first)
	}
	if first.Difficulty != domain.DifficultyMedium {
		t.Fatalf("expected medium difficulty, got %s", first.Difficulty)
	}
	if records[1].CorrectIndex != 2 || records[1].Options[2] != "Mercury" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestParseEmptyInput(t *testing.T) {
	if records := Parse(""); len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if records := Parse("the model refused to answer"); len(records) != 0 {
		t.Fatalf("expected no records without markers, got %d", len(records))
	}
}

func TestParseDropsBlocksWithWrongOptionCount(t *testing.T) {
	text := `QUESTION 1:
Prompt: Three options only?
A) one
B) two
C) three
CORRECT: A

QUESTION 2:
Prompt: Valid block
A) w
B) x
C) y
D) z
CORRECT: D

QUESTION 3:
Prompt: Repeated label
A) one
B) two
C) three
D) four
A) five
CORRECT: A
`
	records := Parse(text)
	if len(records) != 1 {
		t.Fatalf("expected only the valid block, got %d: %+v", len(records), records)
	}
	if records[0].Prompt != "Valid block" || records[0].CorrectIndex != 3 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestParseDropsIncompleteBlocks(t *testing.T) {
	cases := map[string]string{
		"missing prompt": "QUESTION 1:\nA) a\nB) b\nC) c\nD) d\nCORRECT: A\n",
		"missing answer": "QUESTION 1:\nPrompt: p\nA) a\nB) b\nC) c\nD) d\n",
		"bad letter":     "QUESTION 1:\nPrompt: p\nA) a\nB) b\nC) c\nD) d\nCORRECT: E\n",
		"out of order":   "QUESTION 1:\nPrompt: p\nB) a\nA) b\nC) c\nD) d\nCORRECT: A\n",
		"duplicate text": "QUESTION 1:\nPrompt: p\nA) same\nB) same\nC) c\nD) d\nCORRECT: A\n",
	}
	for name, text := range cases {
		if records := Parse(text); len(records) != 0 {
			t.Fatalf("%s: expected block to be dropped, got %+v", name, records)
		}
	}
}

func TestParseMultilineOptionsAndPrompt(t *testing.T) {
	text := "QUESTION 1:\nPrompt: Read the passage.\nWhich word is a verb?\nA) run\n   quickly\nB) blue\nC) table\nD) happy\n\nCORRECT: A\nExplanation: run is the verb.\n"
	records := Parse(text)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Prompt != "Read the passage.\nWhich word is a verb?" {
		t.Fatalf("unexpected prompt %q", records[0].Prompt)
	}
	if records[0].Options[0] != "run\nquickly" {
		t.Fatalf("unexpected multiline option %q", records[0].Options[0])
	}
	if records[0].Options[3] != "happy" {
		t.Fatalf("explanation leaked into option: %q", records[0].Options[3])
	}
}

func TestParseMarkerToleranceAndOrdinals(t *testing.T) {
	text := "question   7 :\r\nPrompt: first\r\nA) a\r\nB) b\r\nC) c\r\nD) d\r\nCORRECT: c\r\n" +
		"QUESTAO 2:\nPergunta: segunda\nA) a\nB) b\nC) c\nD) d\nCORRETA: D\n"
	records := Parse(text)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Prompt != "first" || records[0].CorrectIndex != 2 {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Prompt != "segunda" || records[1].CorrectIndex != 3 {
		t.Fatalf("unexpected second record %+v", records[1])
	}
}

func TestParseIgnoresMarkerInsideWord(t *testing.T) {
	text := strings.Replace(twoBlocks, "QUESTION 2:", "SUBQUESTION 2:", 1)
	records := Parse(text)
	if len(records) != 0 {
		// the second block is glued onto the first, which then has 8 options
		t.Fatalf("expected merged block to be dropped, got %+v", records)
	}
}
