package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jane@example.com"))
	assert.NoError(t, ValidateEmail("Jane@Example.com"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("   "))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("two words@example.com"))
}

func TestSanitizeFileNameStripsPathComponents(t *testing.T) {
	name, err := SanitizeFileName("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "passwd", name)

	name, err = SanitizeFileName("/tmp/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", name)
}

func TestSanitizeFileNameKeepsPlainNames(t *testing.T) {
	name, err := SanitizeFileName("My Resume (2026).pdf")
	require.NoError(t, err)
	assert.Equal(t, "My Resume (2026).pdf", name)
}

func TestSanitizeFileNameRejectsEmptyAndDots(t *testing.T) {
	_, err := SanitizeFileName("")
	assert.Error(t, err)

	_, err = SanitizeFileName("..")
	assert.Error(t, err)

	_, err = SanitizeFileName("   ")
	assert.Error(t, err)
}

func TestSanitizeStringRemovesControlCharacters(t *testing.T) {
	assert.Equal(t, "Jane Doe", SanitizeString("Jane\x00 Doe\n"))
	assert.Equal(t, "a\tb", SanitizeString("a\tb"))
}
