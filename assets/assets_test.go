package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/opentype"
)

func TestLipsumHasParagraphs(t *testing.T) {
	assert.True(t, strings.HasPrefix(Lipsum, "Lorem ipsum"))
	assert.Contains(t, Lipsum, "\n\n")
}

func TestFontParses(t *testing.T) {
	_, err := opentype.Parse(FontTTF)
	assert.NoError(t, err)
}
