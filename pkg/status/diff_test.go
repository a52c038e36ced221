package status

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFileRecord_Diff(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	rec := &FileRecord{
		Changed:     true,
		Original:    "a\nb\nc\nd\ne\nf\nthrow X('y');\ng\n",
		Transformed: "a\nb\nc\nd\ne\nf\nthrow AppException(\n  'y',\n);\ng\n",
	}

	assert.Equal(t, "  ...\n"+
		"  f\n"+
		"- throw X('y');\n"+
		"+ throw AppException(\n"+
		"+   'y',\n"+
		"+ );\n"+
		"  g\n", rec.Diff(1))

	assert.Empty(t, (&FileRecord{Original: "x", Transformed: "x"}).Diff(3), "unchanged records have no diff")
}
