package semantic

import (
	"reflect"
	"testing"
)

func TestBaseTypeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Widget", "Widget"},
		{"Vec<T>", "Vec"},
		{"&mut Vec<T>", "Vec"},
		{"*const Config", "Config"},
		{"crate::m::Widget", "Widget"},
		{"geometry.Point", "Point"},
		{"  Map<string, number>  ", "Map"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := BaseTypeName(tc.in); got != tc.want {
			t.Errorf("BaseTypeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnwrapGeneric(t *testing.T) {
	base, args, ok := UnwrapGeneric("Result<Config, ParseError>")
	if !ok || base != "Result" {
		t.Fatalf("UnwrapGeneric base = (%q, %v), want Result", base, ok)
	}
	if !reflect.DeepEqual(args, []string{"Config", "ParseError"}) {
		t.Errorf("args = %v, want [Config ParseError]", args)
	}

	_, args, ok = UnwrapGeneric("HashMap<String, Vec<(u32, u32)>>")
	if !ok || !reflect.DeepEqual(args, []string{"String", "Vec<(u32, u32)>"}) {
		t.Errorf("nested args = (%v, %v), want inner commas kept", args, ok)
	}

	for _, in := range []string{"Widget", "<T>", "Fn(A) -> B", "Vec<T> + Send"} {
		if _, _, ok := UnwrapGeneric(in); ok {
			t.Errorf("UnwrapGeneric(%q) ok = true, want false", in)
		}
	}
}

func TestSplitTopLevel(t *testing.T) {
	got := SplitTopLevel("a, f(b, c), d<e, g>", ',')
	want := []string{"a", "f(b, c)", "d<e, g>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTopLevel = %v, want %v", got, want)
	}
	if got := SplitTopLevel("", ','); len(got) != 0 {
		t.Errorf("SplitTopLevel(\"\") = %v, want empty", got)
	}
}
