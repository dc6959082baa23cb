package distill_test

import (
	"testing"

	"github.com/akowalsk/distill"
	"github.com/stretchr/testify/assert"
)

func TestElementNode_Attr(t *testing.T) {
	t.Parallel()

	node := &distill.ElementNode{
		TagName:    "a",
		Attributes: map[string]string{"href": "https://example.com", "rel": ""},
	}

	v, ok := node.Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", v)

	v, ok = node.Attr("rel")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = node.Attr("missing")
	assert.False(t, ok)
}

func TestElementNode_VisibleText(t *testing.T) {
	t.Parallel()

	t.Run("concatenates trimmed descendant text", func(t *testing.T) {
		t.Parallel()

		node := elem("div",
			text("  Hello "),
			elem("span", text(" wor")),
			text("ld  "),
		)

		assert.Equal(t, "Helloworld", node.VisibleText())
	})

	t.Run("empty for element without text", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", elem("div", elem("span")).VisibleText())
	})
}

func TestPage_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()

		page := &distill.Page{Mode: distill.ModeRaw}

		err := page.Validate()

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("requires known mode", func(t *testing.T) {
		t.Parallel()

		page := &distill.Page{URL: "https://example.com", Mode: "nope"}

		err := page.Validate()

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("accepts valid page", func(t *testing.T) {
		t.Parallel()

		page := &distill.Page{URL: "https://example.com", Mode: distill.ModeMarkdown}

		assert.NoError(t, page.Validate())
	})
}
