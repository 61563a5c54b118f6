package extract

import (
	"strings"
	"testing"
)

func TestPageTextSimpleTj(t *testing.T) {
	content := []byte(`BT /F1 12 Tf 72 720 Td (Invoice No. 1234) Tj ET`)
	got := pageText(content)
	if !strings.Contains(got, "Invoice No. 1234") {
		t.Fatalf("got %q", got)
	}
}

func TestPageTextTJArray(t *testing.T) {
	content := []byte(`BT [(Amazon) -250 ( EU ) 120 (Sarl)] TJ ET`)
	got := pageText(content)
	if !strings.Contains(got, "Amazon EU Sarl") {
		t.Fatalf("got %q", got)
	}
}

func TestPageTextPositioningBreaksLines(t *testing.T) {
	content := []byte(`BT (Vendor:) Tj 0 -14 Td (Amazon) Tj ET`)
	got := pageText(content)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || lines[0] != "Vendor:" || lines[1] != "Amazon" {
		t.Fatalf("got lines %q", lines)
	}
}

func TestPageTextEscapes(t *testing.T) {
	content := []byte(`BT (Parens \(nested\) and \\ backslash \101) Tj ET`)
	got := pageText(content)
	if !strings.Contains(got, `Parens (nested) and \ backslash A`) {
		t.Fatalf("got %q", got)
	}
}

func TestPageTextNestedParens(t *testing.T) {
	content := []byte(`BT (outer (inner) tail) Tj ET`)
	got := pageText(content)
	if !strings.Contains(got, "outer (inner) tail") {
		t.Fatalf("got %q", got)
	}
}

func TestPageTextHexString(t *testing.T) {
	content := []byte(`BT <48656C6C6F> Tj ET`)
	got := pageText(content)
	if !strings.Contains(got, "Hello") {
		t.Fatalf("got %q", got)
	}
}

func TestPageTextSkipsNonTextOperands(t *testing.T) {
	// The string operand belongs to a non-text operator and must not leak.
	content := []byte(`(ignored) BDC BT (shown) Tj ET`)
	got := pageText(content)
	if strings.Contains(got, "ignored") {
		t.Fatalf("non-text operand leaked into %q", got)
	}
	if !strings.Contains(got, "shown") {
		t.Fatalf("got %q", got)
	}
}

func TestPageTextSkipsCIDHexStrings(t *testing.T) {
	// Glyph-index hex strings full of control bytes are dropped.
	content := []byte(`BT <00010002> Tj (real text) Tj ET`)
	got := pageText(content)
	if !strings.Contains(got, "real text") {
		t.Fatalf("got %q", got)
	}
	if strings.ContainsRune(got, 0x01) {
		t.Fatalf("control bytes leaked into %q", got)
	}
}

func TestPageTextApostropheOperatorStartsNewLine(t *testing.T) {
	content := []byte(`BT (first) Tj (second) ' ET`)
	got := pageText(content)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || lines[1] != "second" {
		t.Fatalf("got lines %q", lines)
	}
}
