package types

import (
	"testing"

	"cc/token"
)

func TestSizeOfBasicTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want int
	}{
		{"char", Char, 1},
		{"int", Int, 4},
		{"pointer", NewPointer(Int), 8},
		{"array of 3 ints", NewArray(Int, 3), 12},
		{"array of 4 chars", NewArray(Char, 4), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeOf(tt.typ); got != tt.want {
				t.Errorf("SizeOf(%s) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestStructLayoutWithPadding(t *testing.T) {
	// struct { char c; int i; } -- c at offset 0, i padded to offset 4,
	// total size padded to the struct's own alignment (4).
	s := NewStruct("point")
	s.AddMember("c", Char)
	s.AddMember("i", Int)

	cMember, _ := s.Member("c")
	iMember, _ := s.Member("i")

	if cMember.Offset != 0 {
		t.Errorf("offset of c = %d, want 0", cMember.Offset)
	}
	if iMember.Offset != 4 {
		t.Errorf("offset of i = %d, want 4 (aligned up from 1)", iMember.Offset)
	}
	if got := SizeOf(s); got != 8 {
		t.Errorf("SizeOf(struct) = %d, want 8", got)
	}
}

func TestStructLayoutTrailingPadding(t *testing.T) {
	// struct { int i; char c; } -- size must pad up to int's alignment (4).
	s := NewStruct("")
	s.AddMember("i", Int)
	s.AddMember("c", Char)

	if got := SizeOf(s); got != 8 {
		t.Errorf("SizeOf(struct) = %d, want 8 (padded to largest member alignment)", got)
	}
}

func TestDecayArrayToPointer(t *testing.T) {
	arr := NewArray(Int, 5)
	decayed := Decay(arr)
	if decayed.Kind != PTR || !Equal(decayed.Base, Int) {
		t.Errorf("Decay(array of int) = %+v, want pointer to int", decayed)
	}
	if Decay(Int) != Int {
		t.Errorf("Decay(int) should be a no-op")
	}
}

func TestDeduceArithmeticOnBasics(t *testing.T) {
	got, err := Deduce(token.Kind('+'), Int, Char, false, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, Int) {
		t.Errorf("int + char = %v, want int", got.Kind)
	}
}

func TestDeducePointerArithmetic(t *testing.T) {
	ptr := NewPointer(Int)
	got, err := Deduce(token.Kind('+'), ptr, Int, false, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != PTR || !Equal(got.Base, Int) {
		t.Errorf("pointer + int = %+v, want pointer to int", got)
	}
}

func TestDeducePointerDifference(t *testing.T) {
	ptr := NewPointer(Int)
	got, err := Deduce(token.Kind('-'), ptr, ptr, false, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(got, Int) {
		t.Errorf("pointer - pointer = %v, want int", got.Kind)
	}
}

func TestDeducePointerMinusBasicIsError(t *testing.T) {
	ptr := NewPointer(Int)
	if _, err := Deduce(token.Kind('-'), Int, ptr, false, 0, 0); err == nil {
		t.Errorf("expected a type error subtracting a pointer from a basic type")
	}
}

func TestDeduceIncompatiblePointerDifference(t *testing.T) {
	intPtr := NewPointer(Int)
	charPtr := NewPointer(Char)
	if _, err := Deduce(token.Kind('-'), intPtr, charPtr, false, 0, 0); err == nil {
		t.Errorf("expected a type error subtracting pointers to different element types")
	}
}

func TestDeduceAssignmentZeroLiteralToPointer(t *testing.T) {
	ptr := NewPointer(Int)
	got, err := Deduce(token.Kind('='), ptr, Int, true, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != PTR {
		t.Errorf("assigning literal 0 to pointer should type as pointer, got %v", got.Kind)
	}
}

func TestDeduceAssignmentIncompatible(t *testing.T) {
	ptr := NewPointer(Int)
	if _, err := Deduce(token.Kind('='), Int, ptr, false, 0, 0); err == nil {
		t.Errorf("expected a type error assigning pointer to int")
	}
}

func TestDeduceAssignmentToWholeArrayIsError(t *testing.T) {
	arr := NewArray(Int, 3)
	ptr := NewPointer(Int)
	if _, err := Deduce(token.Kind('='), arr, ptr, false, 0, 0); err == nil {
		t.Errorf("expected a type error assigning to an array as a whole")
	}
}
