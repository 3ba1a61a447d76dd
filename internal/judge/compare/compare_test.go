package compare

import (
	"reflect"
	"testing"
)

func TestNormalizeDropsBlankLinesAndTrims(t *testing.T) {
	got := Normalize("  1 2 \n\n  \nhello  \r\n3\n\n")
	want := []string{"1 2", "hello", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize mismatch: got %v want %v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := NormalizeText("a \n\n b\n")
	second := NormalizeText(first)
	if first != second {
		t.Fatalf("normalize not idempotent: %q vs %q", first, second)
	}
}

func TestEqualOrdered(t *testing.T) {
	if !Equal("1\n2\n3\n", "1\n2\n3", false) {
		t.Fatal("identical outputs should match")
	}
	if Equal("1\n2\n3", "1\n3\n2", false) {
		t.Fatal("ordered comparison must be order sensitive")
	}
	if !Equal("1\n\n2\n", "  1\n2", false) {
		t.Fatal("blank lines and surrounding spaces must not matter")
	}
}

func TestEqualUnorderedPermutation(t *testing.T) {
	if !Equal("1\n2\n3", "3\n1\n2", true) {
		t.Fatal("permutation should match in unordered mode")
	}
	if Equal("1\n2\n3", "1\n2\n4", true) {
		t.Fatal("different lines must not match")
	}
}

func TestEqualUnorderedMultiplicity(t *testing.T) {
	if Equal("1\n1\n2", "1\n2\n2", true) {
		t.Fatal("line multiplicity must be preserved in unordered mode")
	}
	if Equal("1\n2", "1\n2\n2", true) {
		t.Fatal("extra lines must not match")
	}
}

func TestEqualEmptyOutputs(t *testing.T) {
	if !Equal("\n\n", "   ", false) {
		t.Fatal("outputs that normalize to nothing should match")
	}
	if Equal("", "x", false) {
		t.Fatal("empty vs non-empty must not match")
	}
}
