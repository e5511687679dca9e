package normalize

import (
	"reflect"
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"田中", "田中"},
		{"  田中  ", "田中"},
		{"", ""},
		{"   ", ""},
		{"John   Doe", "John Doe"},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStudentID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"B1234567", "B1234567"},
		{"b1234567", "B1234567"},
		{"  e2023456  ", "E2023456"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := StudentID(tt.input)
			if got != tt.want {
				t.Errorf("StudentID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoles(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"preserves order", []string{"Web班", "副代表"}, []string{"Web班", "副代表"}},
		{"drops blanks", []string{"  ", "イベント班", ""}, []string{"イベント班"}},
		{"all blank becomes nil", []string{" ", ""}, nil},
		{"nil stays nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Roles(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Roles(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"https://tanaka-blog.com", "https://tanaka-blog.com", true},
		{"  http://example.com/p?q=1  ", "http://example.com/p?q=1", true},
		{"ftp://example.com", "ftp://example.com", false},
		{"javascript:alert(1)", "javascript:alert(1)", false},
		{"not a url", "not a url", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := URL(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("URL(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
