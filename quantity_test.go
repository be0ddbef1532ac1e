package units

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestQuantity_Parse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s         string
			wantValue int64
			wantMag   Magnitude
		}{
			{"0", 0, Single},
			{"1500", 1500, Single},
			{"23K", 23, Thousand},
			{"4T", 4, Trillion},
			{" 9 P ", 9, Quadrillion},
		}
		for _, tt := range tests {
			got, err := ParseQuantity(tt.s)
			if err != nil {
				t.Errorf("ParseQuantity(%q) failed: %v", tt.s, err)
				continue
			}
			if got.Amount() != tt.wantValue || got.Magnitude() != tt.wantMag {
				t.Errorf("ParseQuantity(%q) = %v%v, want %v%v", tt.s, got.Amount(), got.Magnitude(), tt.wantValue, tt.wantMag)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			s    string
			want error
		}{
			{"", ErrEmptyInput},
			{"-1", ErrInvalidFormat},
			{"1.5K", ErrInvalidFormat},
			{"12X", ErrUnknownUnit},
			{"99999999999999999999", ErrOverflow},
		}
		for _, tt := range tests {
			_, err := ParseQuantity(tt.s)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseQuantity(%q) error = %v, want %v", tt.s, err, tt.want)
			}
		}
	})
}

func TestMustParseQuantity(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustParseQuantity(\"bogus\") did not panic")
			}
		}()
		MustParseQuantity("bogus")
	})
}

func TestQuantity_Value(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got, err := MustParseQuantity("5M").Value(Thousand)
		if err != nil {
			t.Fatalf("Value(Thousand) failed: %v", err)
		}
		if got != 5000 {
			t.Errorf("ParseQuantity(\"5M\").Value(Thousand) = %v, want 5000", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			s         string
			magnitude Magnitude
			want      error
		}{
			{"1", Thousand, ErrPrecisionLoss},
			{"9223372036854775807P", Single, ErrOverflow},
		}
		for _, tt := range tests {
			_, err := MustParseQuantity(tt.s).Value(tt.magnitude)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseQuantity(%q).Value(%v) error = %v, want %v", tt.s, tt.magnitude, err, tt.want)
			}
		}
	})
}

func TestQuantity_ConvertTo(t *testing.T) {
	got, err := MustNewQuantity(3000, Single).ConvertTo(Thousand)
	if err != nil {
		t.Fatalf("ConvertTo(Thousand) failed: %v", err)
	}
	if got.Amount() != 3 || got.Magnitude() != Thousand {
		t.Errorf("ConvertTo(Thousand) = %v%v, want 3K", got.Amount(), got.Magnitude())
	}
}

func TestQuantity_SuccinctRounded(t *testing.T) {
	tests := []struct {
		value     int64
		magnitude Magnitude
		wantValue int64
		wantMag   Magnitude
	}{
		{0, Single, 0, Single},
		{999, Single, 999, Single},
		{123456, Single, 123, Thousand},
		{1500, Single, 2, Thousand},
	}
	for _, tt := range tests {
		got, err := SuccinctRoundedQuantity(tt.value, tt.magnitude)
		if err != nil {
			t.Errorf("SuccinctRoundedQuantity(%v, %v) failed: %v", tt.value, tt.magnitude, err)
			continue
		}
		if got.Amount() != tt.wantValue || got.Magnitude() != tt.wantMag {
			t.Errorf("SuccinctRoundedQuantity(%v, %v) = %v%v, want %v%v",
				tt.value, tt.magnitude, got.Amount(), got.Magnitude(), tt.wantValue, tt.wantMag)
		}
	}
}

func TestQuantity_Cmp(t *testing.T) {
	tests := []struct {
		q, o string
		want int
	}{
		{"2000", "2K", 0},
		{"1M", "999K", 1},
		{"999", "1K", -1},
	}
	for _, tt := range tests {
		q, o := MustParseQuantity(tt.q), MustParseQuantity(tt.o)
		if got := q.Cmp(o); got != tt.want {
			t.Errorf("%q.Cmp(%q) = %v, want %v", tt.q, tt.o, got, tt.want)
		}
		if gotEq, wantEq := q.Equal(o), tt.want == 0; gotEq != wantEq {
			t.Errorf("%q.Equal(%q) = %v, want %v", tt.q, tt.o, gotEq, wantEq)
		}
	}
}

func TestQuantity_JSON(t *testing.T) {
	got, err := json.Marshal(MustParseQuantity("4T"))
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if want := `"4T"`; string(got) != want {
		t.Errorf("json.Marshal = %s, want %s", got, want)
	}

	var q Quantity
	if err := json.Unmarshal([]byte(`"4T"`), &q); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if q.Amount() != 4 || q.Magnitude() != Trillion {
		t.Errorf("json.Unmarshal = %v", q)
	}
}

func TestQuantity_Scan(t *testing.T) {
	var q Quantity
	if err := q.Scan("23K"); err != nil {
		t.Fatalf("Scan(\"23K\") failed: %v", err)
	}
	if q.Amount() != 23 || q.Magnitude() != Thousand {
		t.Errorf("Scan(\"23K\") = %v%v", q.Amount(), q.Magnitude())
	}

	var n NullQuantity
	if err := n.Scan(nil); err != nil {
		t.Fatalf("NullQuantity.Scan(nil) failed: %v", err)
	}
	if n.Valid {
		t.Errorf("NullQuantity.Scan(nil): Valid = true")
	}
}
