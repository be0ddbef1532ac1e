package units

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// multiplied mirrors the parser's rounding so multiplier expectations hold on
// any machine, whatever AvailableProcessorCount reports.
func multiplied(multiplier float64) ThreadCount {
	return ThreadCount(math.Floor(multiplier*float64(AvailableProcessorCount()) + 0.5))
}

func TestExactThreadCount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []int64{0, 1, 67, math.MaxUint32}
		for _, tt := range tests {
			got, err := ExactThreadCount(tt)
			if err != nil {
				t.Errorf("ExactThreadCount(%v) failed: %v", tt, err)
				continue
			}
			if got.Threads() != int(tt) {
				t.Errorf("ExactThreadCount(%v).Threads() = %v", tt, got.Threads())
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			count int64
			want  error
		}{
			{-1, ErrNegativeValue},
			{math.MaxUint32 + 1, ErrOverflow},
			{math.MaxInt64, ErrOverflow},
		}
		for _, tt := range tests {
			_, err := ExactThreadCount(tt.count)
			if !errors.Is(err, tt.want) {
				t.Errorf("ExactThreadCount(%v) error = %v, want %v", tt.count, err, tt.want)
			}
		}
	})
}

func TestThreadCount_Parse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want ThreadCount
		}{
			{"0", 0},
			{"1", 1},
			{"67", 67},
			{" 8 ", 8},
			{"4294967295", math.MaxUint32},
			{"0C", 0},
			{"1C", multiplied(1)},
			{"0.5C", multiplied(0.5)},
			{"1.5C", multiplied(1.5)},
			{"2 C", multiplied(2)},
		}
		for _, tt := range tests {
			got, err := ParseThreadCount(tt.s)
			if err != nil {
				t.Errorf("ParseThreadCount(%q) failed: %v", tt.s, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseThreadCount(%q) = %v, want %v", tt.s, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			s    string
			want error
		}{
			{"", ErrEmptyInput},
			{"-1", ErrNegativeValue},
			{"67.0", ErrInvalidFormat},
			{"abc", ErrInvalidFormat},
			{"4294967296", ErrOverflow},
			{"9223372036854775808", ErrOverflow},
			{"-1C", ErrNegativeValue},
			{"-1SC", ErrInvalidFormat},
			{"8589934592C", ErrOverflow},
		}
		for _, tt := range tests {
			_, err := ParseThreadCount(tt.s)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseThreadCount(%q) error = %v, want %v", tt.s, err, tt.want)
			}
		}
	})
}

func TestMustParseThreadCount(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustParseThreadCount(\"bogus\") did not panic")
			}
		}()
		MustParseThreadCount("bogus")
	})
}

func TestBoundedThreadCount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			value, min, max string
			want            ThreadCount
		}{
			{"8", "1", "16", 8},
			{"3", "4", "16", 4},  // clamped up
			{"32", "4", "16", 16}, // clamped down
			{"3", "1", "1", 1},
			{"256C", "4", "16", 16},
		}
		for _, tt := range tests {
			got, err := BoundedThreadCount(tt.value, tt.min, tt.max)
			if err != nil {
				t.Errorf("BoundedThreadCount(%q, %q, %q) failed: %v", tt.value, tt.min, tt.max, err)
				continue
			}
			if got != tt.want {
				t.Errorf("BoundedThreadCount(%q, %q, %q) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := BoundedThreadCount("bogus", "1", "16"); err == nil {
			t.Errorf("BoundedThreadCount with a bad value did not fail")
		}
		if _, err := BoundedThreadCount("8", "bogus", "16"); err == nil {
			t.Errorf("BoundedThreadCount with a bad lower bound did not fail")
		}
		if _, err := BoundedThreadCount("8", "1", "bogus"); err == nil {
			t.Errorf("BoundedThreadCount with a bad upper bound did not fail")
		}
	})
}

func TestThreadCount_Cmp(t *testing.T) {
	tests := []struct {
		t, o ThreadCount
		want int
	}{
		{0, 0, 0},
		{1, 2, -1},
		{8, 4, 1},
	}
	for _, tt := range tests {
		if got := tt.t.Cmp(tt.o); got != tt.want {
			t.Errorf("%v.Cmp(%v) = %v, want %v", tt.t, tt.o, got, tt.want)
		}
		if gotEq, wantEq := tt.t.Equal(tt.o), tt.want == 0; gotEq != wantEq {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.t, tt.o, gotEq, wantEq)
		}
	}
}

func TestThreadCount_String(t *testing.T) {
	if got := ThreadCount(67).String(); got != "67" {
		t.Errorf("ThreadCount(67).String() = %q, want %q", got, "67")
	}
}

func TestThreadCount_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		got, err := json.Marshal(ThreadCount(8))
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		// Thread counts serialize as bare integers, not quoted strings.
		if want := "8"; string(got) != want {
			t.Errorf("json.Marshal = %s, want %s", got, want)
		}
	})

	t.Run("unmarshal", func(t *testing.T) {
		tests := []struct {
			text string
			want ThreadCount
		}{
			{"8", 8},
			{`"67"`, 67},
			{`"0.5C"`, multiplied(0.5)},
		}
		for _, tt := range tests {
			var tc ThreadCount
			if err := json.Unmarshal([]byte(tt.text), &tc); err != nil {
				t.Errorf("json.Unmarshal(%s) failed: %v", tt.text, err)
				continue
			}
			if tc != tt.want {
				t.Errorf("json.Unmarshal(%s) = %v, want %v", tt.text, tc, tt.want)
			}
		}
	})

	t.Run("null", func(t *testing.T) {
		var n NullThreadCount
		if err := json.Unmarshal([]byte("null"), &n); err != nil {
			t.Fatalf("json.Unmarshal failed: %v", err)
		}
		if n.Valid {
			t.Errorf("unmarshaling null: Valid = true")
		}
	})
}

func TestThreadCount_Scan(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			value any
			want  ThreadCount
		}{
			{"8", 8},
			{[]byte("1C"), multiplied(1)},
			{int64(42), 42},
		}
		for _, tt := range tests {
			var tc ThreadCount
			if err := tc.Scan(tt.value); err != nil {
				t.Errorf("Scan(%v) failed: %v", tt.value, err)
				continue
			}
			if tc != tt.want {
				t.Errorf("Scan(%v) = %v, want %v", tt.value, tc, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		var tc ThreadCount
		if err := tc.Scan(nil); err == nil {
			t.Errorf("Scan(nil) did not fail")
		}
		if err := tc.Scan(int64(-1)); err == nil {
			t.Errorf("Scan(-1) did not fail")
		}
	})
}
