package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "empty", content: "  \n", expected: "text"},
		{name: "include", content: "#include <stdio.h>\nint main(void) { return 0; }\n", expected: "c"},
		{name: "declaration", content: "static int count = 0;\n", expected: "c"},
		{name: "function", content: "int add(int a, int b) {\n    return a + b;\n}\n", expected: "c"},
		{name: "struct pointer", content: "struct node *head;\n", expected: "c"},
		{name: "cpp", content: "std::vector<int> v;\n", expected: "c++"},
		{name: "go", content: "package main\n\nfunc main() {}\n", expected: "go"},
		{name: "shebang", content: "#!/bin/sh\necho hi\n", expected: "bash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestIsC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		expected bool
	}{
		{name: "c source", path: "main.c", content: "", expected: true},
		{name: "upper case extension", path: "MAIN.C", content: "int x;", expected: true},
		{name: "empty header", path: "defs.h", content: "", expected: true},
		{name: "c header", path: "defs.h", content: "int add(int a, int b);\n", expected: true},
		{name: "cpp header", path: "defs.h", content: "namespace x { class Y {}; }\n", expected: false},
		{name: "go file", path: "main.go", content: "package main\n", expected: false},
		{name: "markdown", path: "README.md", content: "# Title\n", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.IsC(tt.path, []byte(tt.content)))
		})
	}
}

func TestIsFenceTag(t *testing.T) {
	t.Parallel()

	langs := []string{"c", "h"}

	assert.True(t, langdetect.IsFenceTag("c", langs))
	assert.True(t, langdetect.IsFenceTag("C", langs))
	assert.True(t, langdetect.IsFenceTag("h", langs))
	assert.True(t, langdetect.IsFenceTag("c {.numberLines}", langs))
	assert.False(t, langdetect.IsFenceTag("cpp", langs))
	assert.False(t, langdetect.IsFenceTag("", langs))
	assert.False(t, langdetect.IsFenceTag("go", langs))
}
