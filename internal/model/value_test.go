package model

import (
	"encoding/json"
	"testing"
)

func TestValue_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "empty", value: Value{}, want: "null"},
		{name: "bool", value: NewBool(true), want: "true"},
		{name: "int", value: NewInt(267), want: "267"},
		{name: "float", value: NewFloat(2.56), want: "2.56"},
		{name: "string", value: NewString("AM5"), want: `"AM5"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var back Value
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !back.Equal(tt.value) {
				t.Errorf("round trip = %v, want %v", back, tt.value)
			}
			if back.Kind() != tt.value.Kind() {
				t.Errorf("round trip kind = %v, want %v", back.Kind(), tt.value.Kind())
			}
		})
	}
}

func TestValue_UnmarshalPreservesIntKind(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte("16"), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v.Kind() != KindInt {
		t.Errorf("Kind() = %v, want KindInt", v.Kind())
	}

	if err := json.Unmarshal([]byte("4.2"), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v.Kind() != KindFloat {
		t.Errorf("Kind() = %v, want KindFloat", v.Kind())
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a    Value
		b    Value
		want bool
	}{
		{name: "int equals float of same magnitude", a: NewInt(5), b: NewFloat(5.0), want: true},
		{name: "different ints", a: NewInt(5), b: NewInt(6), want: false},
		{name: "same strings", a: NewString("AM5"), b: NewString("AM5"), want: true},
		{name: "case differs", a: NewString("am5"), b: NewString("AM5"), want: false},
		{name: "string never equals number", a: NewString("5"), b: NewInt(5), want: false},
		{name: "empty equals empty", a: Value{}, b: Value{}, want: true},
		{name: "empty never equals zero", a: Value{}, b: NewInt(0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	if got := NewFloat(5.0).String(); got != "5" {
		t.Errorf("String() = %q, want %q", got, "5")
	}
	if got := NewBool(false).String(); got != "false" {
		t.Errorf("String() = %q, want %q", got, "false")
	}
	if got := (Value{}).String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}
