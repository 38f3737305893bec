package lspconv

import "testing"

func TestByteOffsetToPositionSingleLine(t *testing.T) {
	src := []byte("DATABASE_URL=postgres://x\n")
	pos := ByteOffsetToPosition(src, 13)
	if pos.Line != 0 || pos.Character != 13 {
		t.Fatalf("got %+v, want {0 13}", pos)
	}
}

func TestByteOffsetToPositionAcrossLines(t *testing.T) {
	src := []byte("line one\nline two\nline three\n")
	offset := len("line one\nline ")
	pos := ByteOffsetToPosition(src, offset)
	if pos.Line != 1 || pos.Character != 5 {
		t.Fatalf("got %+v, want {1 5}", pos)
	}
}

func TestPositionToByteOffsetRoundTrips(t *testing.T) {
	src := []byte("line one\nline two\nline three\n")
	for _, offset := range []int{0, 5, 9, 18, 29} {
		pos := ByteOffsetToPosition(src, offset)
		got := PositionToByteOffset(src, pos)
		if got != offset {
			t.Errorf("round trip for offset %d: got %d via %+v", offset, got, pos)
		}
	}
}

func TestByteOffsetToPositionCountsAstralRunesAsTwoUnits(t *testing.T) {
	// U+1F600 GRINNING FACE is 4 bytes in UTF-8, 2 units in UTF-16.
	src := []byte("x = \U0001F600y\n")
	afterEmoji := len("x = \U0001F600")
	pos := ByteOffsetToPosition(src, afterEmoji)
	if pos.Character != 6 {
		t.Fatalf("Character = %d, want 6 (4 ascii + 2 surrogate units)", pos.Character)
	}
}
