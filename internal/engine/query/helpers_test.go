package query

import (
	"reflect"
	"testing"
)

func TestTrimQuotes(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"./module"`, "./module"},
		{`'./module'`, "./module"},
		{"`./module`", "./module"},
		{` "spaced" `, "spaced"},
		{"unquoted", "unquoted"},
		{`""`, ""},
	}
	for _, tc := range cases {
		if got := trimQuotes(tc.in); got != tc.want {
			t.Errorf("trimQuotes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsUpperSnake(t *testing.T) {
	yes := []string{"MAX_RETRIES", "VERSION", "HTTP2", "A"}
	no := []string{"", "maxRetries", "Max_Retries", "_", "123", "MAX-RETRIES"}
	for _, name := range yes {
		if !isUpperSnake(name) {
			t.Errorf("isUpperSnake(%q) = false, want true", name)
		}
	}
	for _, name := range no {
		if isUpperSnake(name) {
			t.Errorf("isUpperSnake(%q) = true, want false", name)
		}
	}
}

func TestSplitTypeArguments(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"<string>", []string{"string"}},
		{"<Map<string, number>, boolean>", []string{"Map<string, number>", "boolean"}},
		{"< K , V >", []string{"K", "V"}},
	}
	for _, tc := range cases {
		if got := splitTypeArguments(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitTypeArguments(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := splitTypeArguments("<>"); len(got) != 0 {
		t.Errorf("splitTypeArguments(\"<>\") = %v, want empty", got)
	}
}

func TestPyLastSegment(t *testing.T) {
	cases := []struct{ in, want string }{
		{"os.path", "path"},
		{"json", "json"},
		{"a.b.c", "c"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := pyLastSegment(tc.in); got != tc.want {
			t.Errorf("pyLastSegment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsString(t *testing.T) {
	list := []string{"Clone", "Debug"}
	if !containsString(list, "Debug") {
		t.Error("expected Debug to be found")
	}
	if containsString(list, "Display") {
		t.Error("did not expect Display to be found")
	}
	if containsString(nil, "x") {
		t.Error("nil list must contain nothing")
	}
}
