package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseExtract,
				Kind:   KindDanglingOperand,
				Path:   []string{"main", "fusion.2"},
				Detail: "operand has no resolvable producer",
			},
			contains: []string{"[extract]", "dangling_operand", "main.fusion.2", "no resolvable producer"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseSegment,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[segment]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRewrite,
				Kind:   KindUnresolvedUser,
				Detail: "splice failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[rewrite]", "unresolved_user", "splice failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseParse,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseHoist,
		Kind:  KindMalformedLeaf,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseHoist, Kind: KindMalformedLeaf}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseExtract, Kind: KindMalformedLeaf}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseHoist, Kind: KindInvalidInput}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseHoist, Kind: KindMalformedLeaf}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseExtract, KindDanglingOperand).
		Path("main", "fusion.1").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "producer", "nothing").
		Build()

	if err.Phase != PhaseExtract {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseExtract)
	}
	if err.Kind != KindDanglingOperand {
		t.Errorf("Kind = %v, want %v", err.Kind, KindDanglingOperand)
	}
	if len(err.Path) != 2 || err.Path[0] != "main" || err.Path[1] != "fusion.1" {
		t.Errorf("Path = %v, want [main fusion.1]", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected producer, got nothing" {
		t.Errorf("Detail = %v, want 'expected producer, got nothing'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MalformedLeaf", func(t *testing.T) {
		err := MalformedLeaf("main", "param.0", 2)
		if err.Kind != KindMalformedLeaf {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedLeaf)
		}
		if err.Phase != PhaseHoist {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseHoist)
		}
		if !containsSubstring(err.Detail, "2") {
			t.Errorf("Detail = %v, should contain operand count", err.Detail)
		}
	})

	t.Run("DanglingOperand", func(t *testing.T) {
		err := DanglingOperand("main", "add.1", 7)
		if err.Kind != KindDanglingOperand {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDanglingOperand)
		}
		if err.Value != 7 {
			t.Errorf("Value = %v, want 7", err.Value)
		}
	})

	t.Run("UnresolvedUser", func(t *testing.T) {
		err := UnresolvedUser("main", "fusion.1", "add.3")
		if err.Kind != KindUnresolvedUser {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnresolvedUser)
		}
		if !containsSubstring(err.Detail, "add.3") {
			t.Errorf("Detail = %v, should name the user", err.Detail)
		}
	})

	t.Run("InstructionInUse", func(t *testing.T) {
		err := InstructionInUse("fusion.1", "add.3")
		if err.Kind != KindInUse {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInUse)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseVerify, "computation", "helper")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !containsSubstring(err.Detail, "helper") {
			t.Errorf("Detail = %v, should contain the name", err.Detail)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		err := ParseFailed(12, "unexpected token")
		if err.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
		}
		if err.Value != 12 {
			t.Errorf("Value = %v, want 12", err.Value)
		}
		if !containsSubstring(err.Detail, "line 12") {
			t.Errorf("Detail = %v, should contain line number", err.Detail)
		}
	})

	t.Run("InvalidSchedule", func(t *testing.T) {
		err := InvalidSchedule("main", "operand after consumer")
		if err.Kind != KindInvalidSchedule {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidSchedule)
		}
	})
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
