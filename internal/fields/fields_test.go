package fields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/ankibridge/internal/fields"
)

func TestSplitJoin_RoundTrip(t *testing.T) {
	blobs := []string{
		"",
		"front",
		"front\x1fback",
		"\x1f\x1f",
		"a<br>b\x1f\x1fc d \x1f",
	}
	for _, b := range blobs {
		assert.Equal(t, b, fields.Join(fields.Split(b)), "round trip for %q", b)
	}
}

func TestSplit_KeepsEmptyValues(t *testing.T) {
	assert.Equal(t, []string{"Front", "", "Extra"}, fields.Split("Front\x1f\x1fExtra"))
	assert.Equal(t, []string{""}, fields.Split(""))
}

func TestNonBlank(t *testing.T) {
	assert.Equal(t, []string{"Front", "Back"}, fields.NonBlank([]string{"Front", " ", "", "Back"}))
	assert.Empty(t, fields.NonBlank([]string{"", "  "}))
}

func TestIndex_CaseAndWhitespaceInsensitive(t *testing.T) {
	names := []string{"front", "Back", " Example "}

	assert.Equal(t, 0, fields.Index(names, " Front "))
	assert.Equal(t, 1, fields.Index(names, "BACK"))
	assert.Equal(t, 2, fields.Index(names, "example"))
	assert.Equal(t, -1, fields.Index(names, "Notes"))
	assert.Equal(t, -1, fields.Index(names, "   "))
}

func TestTrimEnd(t *testing.T) {
	assert.Equal(t, "  text", fields.TrimEnd("  text \n\t"))
	assert.Equal(t, "", fields.TrimEnd(" \n"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "bold & more", fields.StripHTML("<b>bold</b> &amp; <span\nclass=\"x\">more</span> "))
	assert.Equal(t, "", fields.StripHTML("<br>"))
}

func TestSortFieldAndChecksum(t *testing.T) {
	values := []string{"<i>hello</i>", "back"}

	assert.Equal(t, "hello", fields.SortField(values))
	assert.Equal(t, int64(2868168221), fields.Checksum(values))
	assert.Equal(t, int64(3661210606), fields.Checksum(nil))
}
