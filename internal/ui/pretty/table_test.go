package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/config"
)

func TestTable_Empty(t *testing.T) {
	table := pretty.NewTable(pretty.NewStyles(false), 80, pretty.Column{Header: "ID"})

	assert.Empty(t, table.String())
	assert.Zero(t, table.Len())
}

func TestTable_Layout(t *testing.T) {
	table := pretty.NewTable(pretty.NewStyles(false), 80,
		pretty.Column{Header: "ID"},
		pretty.Column{Header: "COUNT", Align: pretty.AlignRight},
		pretty.Column{Header: "NAME"},
	)
	table.AddRow(config.SeverityError, "CST002", "12", "expected-token")
	table.AddSeparator()
	table.AddRow("", "CST008", "3", "empty-declaration")
	table.AddSeparator()

	lines := strings.Split(strings.TrimSuffix(table.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, " ID      COUNT  NAME", lines[0])
	assert.Equal(t, strings.Repeat("=", len(lines[1])), lines[1])
	assert.Equal(t, " CST002     12  expected-token", lines[2])
	assert.Equal(t, strings.Repeat("-", len(lines[1])), lines[3])
	assert.Equal(t, " CST008      3  empty-declaration", lines[4])
	assert.Equal(t, lines[1], lines[5])
	assert.Equal(t, 2, table.Len())
}

func TestTable_FlexColumnShrinks(t *testing.T) {
	table := pretty.NewTable(pretty.NewStyles(false), 30,
		pretty.Column{Header: "FILE", KeepEnd: true, Flex: true},
		pretty.Column{Header: "MESSAGE", Flex: true},
	)
	table.AddRow("", "very/long/directory/path/main.c", "a message that does not fit in thirty cells")

	for _, line := range strings.Split(strings.TrimSuffix(table.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 30, line)
	}
	assert.Contains(t, table.String(), "...")
}

func TestTable_KeepEndTruncation(t *testing.T) {
	table := pretty.NewTable(pretty.NewStyles(false), 20,
		pretty.Column{Header: "FILE", KeepEnd: true, Flex: true},
	)
	table.AddRow("", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa/main.c")

	assert.Contains(t, table.String(), "...")
	assert.Contains(t, table.String(), "/main.c")
}
