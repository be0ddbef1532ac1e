package units_test

import (
	"encoding/json"
	"fmt"

	"github.com/govalues/units"
)

func ExampleParseDataSize() {
	s := units.MustParseDataSize("1234.567kB")
	fmt.Println(s)
	fmt.Println(s.Bytes())
	// Output:
	// 1234.57kB
	// 1264197
}

func ExampleSuccinctBytes() {
	s, err := units.SuccinctBytes(1073741824)
	if err != nil {
		panic(err)
	}
	fmt.Println(s)
	// Output: 1GB
}

func ExampleDataSize_RoundTo() {
	s := units.MustParseDataSize("1536B")
	rounded, err := s.RoundTo(units.Kilobyte)
	if err != nil {
		panic(err)
	}
	fmt.Println(rounded)
	// Output: 2
}

func ExampleDataSize_MarshalJSON() {
	text, err := json.Marshal(units.MustParseDataSize("16MB"))
	if err != nil {
		panic(err)
	}
	fmt.Println(string(text))
	// Output: "16777216B"
}

func ExampleDuration_Succinct() {
	d := units.MustParseDuration("90s")
	fmt.Println(d.Succinct())
	// Output: 1.50m
}

func ExampleDuration_Value() {
	d := units.MustNewDuration(1, units.Days)
	fmt.Println(d.Value(units.Hours))
	// Output: 24
}

func ExampleSuccinctNanos() {
	d, err := units.SuccinctNanos(1_500_000_000)
	if err != nil {
		panic(err)
	}
	fmt.Println(d)
	// Output: 1.50s
}

func ExampleSuccinctRoundedCount() {
	c, err := units.SuccinctRoundedCount(123456, units.Single)
	if err != nil {
		panic(err)
	}
	fmt.Println(c)
	// Output: 123K
}

func ExampleCount_ConvertTo() {
	c, err := units.MustParseCount("1000").ConvertTo(units.Thousand)
	if err != nil {
		panic(err)
	}
	fmt.Println(c)
	// Output: 1K
}

func ExampleParseThreadCount() {
	t := units.MustParseThreadCount("16")
	fmt.Println(t.Threads())
	// Output: 16
}

func ExampleMaxDataSize() {
	r, err := units.MaxDataSize("10MB")
	if err != nil {
		panic(err)
	}
	v := units.MustParseDataSize("11MB")
	fmt.Println(r.Check(&v))
	// Output: must be less than or equal to 10MB
}
